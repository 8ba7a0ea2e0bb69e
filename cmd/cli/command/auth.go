package command

import (
	"fmt"

	"animehub/cmd/cli/authentication"
	"animehub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the AnimeHub API server. Supports login, registration, logout.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new AnimeHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req client.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Email, _ = cmd.Flags().GetString("email")

		httpClient := client.NewHTTPClient(apiURL)
		user, err := httpClient.Register(&req)
		if err != nil {
			return err
		}

		color.Green("Registration successful! Please login to continue.")
		fmt.Printf("User ID: %s\n", user.ID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your AnimeHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req client.LoginRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")

		httpClient := client.NewHTTPClient(apiURL)
		resp, err := httpClient.Login(&req)
		if err != nil {
			return err
		}

		if err := authentication.StoreTokens(&authentication.StoredCredentials{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			Username:     resp.User.Username,
		}); err != nil {
			return fmt.Errorf("could not store credentials: %w", err)
		}

		token = resp.AccessToken
		color.Green("Logged in as %s", resp.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from your AnimeHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if token != "" {
			httpClient := client.NewHTTPClient(apiURL)
			httpClient.SetToken(token)
			// Best effort; the stored refresh tokens are revoked server-side.
			httpClient.Logout()
		}

		if err := authentication.DeleteTokens(); err == nil {
			color.Green("Logged out.")
		} else {
			fmt.Println("No stored session found.")
		}
		token = ""
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)

	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringP("username", "u", "", "Username for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")
}
