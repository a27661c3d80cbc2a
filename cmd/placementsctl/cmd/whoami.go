package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the cached identity",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	c, store := newSession()
	if !c.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}

	profile, ok := store.Profile()
	if !ok {
		// A session without a cached profile; fetch fails open so this
		// always yields something to print.
		profile, _ = c.Profiles().Fetch(cmd.Context())
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Field", "Value"})
	table.Bulk([][]string{
		{"ID", strconv.Itoa(profile.ID)},
		{"Email", profile.Email},
		{"Username", profile.Username},
		{"Name", strings.TrimSpace(profile.FirstName + " " + profile.LastName)},
		{"Active", strconv.FormatBool(profile.IsActive)},
		{"Groups", strings.Join(profile.Groups, ", ")},
		{"Permissions", strings.Join(profile.Permissions, ", ")},
	})
	table.Render()
	return nil
}
