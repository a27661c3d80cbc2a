// Package cmd contains all CLI commands for placementsctl.
package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"placements-hub/client"
	"placements-hub/internal/adapter/gateway"
	"placements-hub/internal/domain"
	"placements-hub/internal/infrastructure/credstore"
)

var (
	cfgFile   string
	serverURL string
	storePath string
	useMock   bool
	verbose   bool
	version   = "dev"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "placementsctl",
	Short: "Placements portal session CLI",
	Long: `placementsctl manages an authenticated session against the placements
backend: login, logout, identity inspection and authorization checks.

Example usage:
  placementsctl login --email staff@example.edu   # Authenticate and cache tokens
  placementsctl whoami                            # Show the cached identity
  placementsctl check /companies                  # Run the authorization gate
  placementsctl companies                         # Fetch the company catalog`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.placementsctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "placements backend base URL")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "credential store path (default is $HOME/.placementsctl/credentials.json)")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use the offline mock auth provider")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("mock", rootCmd.PersistentFlags().Lookup("mock"))
}

// initConfig reads in the config file and environment variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".placementsctl"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PLACEMENTSCTL")
	viper.AutomaticEnv()
	viper.SetDefault("server", "http://127.0.0.1:8000")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newSession builds the session stack the way the portal does: file-backed
// credential store, injected auth provider, session client on top.
func newSession() (*client.SessionClient, domain.CredentialStore) {
	log := newLogger()

	path := viper.GetString("store")
	if path == "" {
		path = credstore.DefaultPath()
	}
	store := credstore.NewFile(path, log)

	server := viper.GetString("server")
	var provider domain.AuthProvider
	if viper.GetBool("mock") {
		provider = gateway.NewMock()
	} else {
		provider = gateway.NewBackend(server, 10*time.Second, log)
	}

	c := client.New(client.Config{
		BaseURL:   server,
		Timeout:   10 * time.Second,
		UserAgent: "placementsctl/" + version,
	}, store, provider, log)
	return c, store
}
