package command

import (
	"fmt"
	"os"

	"animehub/cmd/cli/authentication"

	"github.com/spf13/cobra"
)

var (
	apiURL string // global flag for the API server URL
	token  string // access token loaded from the keychain
)

var rootCmd = &cobra.Command{
	Use:   "animehub",
	Short: "animehub - AnimeHub command line interface",
	Long: `animehub talks to the AnimeHub API server. With it you can:
- Browse and search the anime catalog
- Rate anime and manage your watchlist
- Fetch personal recommendations
- Chat with friends in real time

Use "animehub <command> -h" to see the flags of each command.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8084", "API server URL")

	if creds, err := authentication.GetTokens(); err == nil {
		token = creds.AccessToken
	}
}

// requireToken aborts commands that need an authenticated session.
func requireToken() error {
	if token == "" {
		return fmt.Errorf("not logged in, run \"animehub auth login\" first")
	}
	return nil
}
