package command

import (
	"fmt"
	"strconv"

	"animehub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var animeCmd = &cobra.Command{
	Use:   "anime",
	Short: "Browse the anime catalog",
}

var animeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List anime in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(token)
		result, err := httpClient.ListAnime(page)
		if err != nil {
			return err
		}

		for _, a := range result.Data {
			printAnime(&a)
		}
		fmt.Printf("\nPage %d of %d (%d total)\n", result.Page, result.TotalPages, result.Total)
		return nil
	},
}

var animeSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search anime by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(token)
		results, err := httpClient.SearchAnime(args[0])
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results.")
			return nil
		}
		for _, a := range results {
			printAnime(&a)
		}
		return nil
	},
}

var animeShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one anime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid anime ID: %s", args[0])
		}

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(token)
		anime, err := httpClient.GetAnime(id)
		if err != nil {
			return err
		}

		printAnime(anime)
		return nil
	},
}

func printAnime(a *client.AnimeResponse) {
	title := color.New(color.Bold).Sprintf("%s", a.Title)
	line := fmt.Sprintf("#%d  %s", a.ID, title)
	if a.Year != nil {
		line += fmt.Sprintf(" (%d)", *a.Year)
	}
	if a.AverageRating != nil {
		line += color.YellowString("  ★ %.1f", *a.AverageRating)
	}
	fmt.Println(line)
	if a.Genre != "" {
		color.HiBlack("    %s", a.Genre)
	}
}

func init() {
	rootCmd.AddCommand(animeCmd)
	animeCmd.AddCommand(animeListCmd)
	animeCmd.AddCommand(animeSearchCmd)
	animeCmd.AddCommand(animeShowCmd)

	animeListCmd.Flags().Int("page", 1, "Page to fetch")
}
