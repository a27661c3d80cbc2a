package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"placements-hub/guard"
)

var (
	checkGroup      string
	checkPermission string
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Run the authorization gate for a route",
	Long: `Evaluates the same checks a guarded route runs: token presence, cached
profile, active flag, required group and optional required permission.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkGroup, "group", "", "required group (default placement)")
	checkCmd.Flags().StringVar(&checkPermission, "permission", "", "required permission")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := "/"
	if len(args) == 1 {
		path = args[0]
	}

	c, store := newSession()
	g := guard.New(store, c.Profiles(), newLogger())
	if checkGroup != "" {
		g.RequiredGroup = checkGroup
	}
	g.RequiredPermission = checkPermission

	decision := g.Check(cmd.Context(), path)
	switch decision.State {
	case guard.Granted:
		color.Green("GRANTED  %s", path)
		return nil
	default:
		color.Red("DENIED   %s", path)
		fmt.Printf("  reason:   %s\n", decision.Reason)
		fmt.Printf("  redirect: %s\n", decision.RedirectTo)
		return fmt.Errorf("access denied")
	}
}
