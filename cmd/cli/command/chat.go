package command

import (
	"animehub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat <friend-id>",
	Short: "Open a live chat with a friend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		return client.OpenChat(apiURL, token, args[0])
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
