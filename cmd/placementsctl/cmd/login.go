package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the placements backend",
	Long: `Authenticates with email and password, stores the token pair and caches
the user profile. Missing credentials are prompted for.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := loginEmail
	if email == "" {
		var err error
		if email, err = prompt("Email: "); err != nil {
			return err
		}
	}
	password := loginPassword
	if password == "" {
		var err error
		if password, err = prompt("Password: "); err != nil {
			return err
		}
	}

	c, store := newSession()
	if _, err := c.Login(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	color.Green("Logged in as %s", email)
	if profile, ok := store.Profile(); ok {
		fmt.Printf("  username: %s\n", profile.Username)
		fmt.Printf("  groups:   %s\n", strings.Join(profile.Groups, ", "))
		if !profile.IsActive {
			color.Yellow("  warning: account is marked inactive")
		}
	}
	return nil
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
