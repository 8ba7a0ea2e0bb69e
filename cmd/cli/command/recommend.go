package command

import (
	"fmt"
	"strings"

	"animehub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show your personal recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(token)
		recs, err := httpClient.GetRecommendations(limit)
		if err != nil {
			return err
		}

		if len(recs) == 0 {
			fmt.Println("No recommendations yet. Rate some anime or add friends first.")
			return nil
		}

		for i, rec := range recs {
			score := color.YellowString("%3d", rec.Score)
			fmt.Printf("%2d. [%s] %s\n", i+1, score, rec.Anime.Title)
			color.HiBlack("      %s", rec.Reason)
		}
		return nil
	},
}

var recommendRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute your recommendations from scratch",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(token)
		summary, err := httpClient.RefreshRecommendations()
		if err != nil {
			return err
		}

		color.Green("Recomputed %d recommendations", summary.Count)
		fmt.Printf("Based on %d ratings across %d friends (mean rating %.1f)\n",
			summary.BasedOn.Ratings, summary.BasedOn.Friends, summary.BasedOn.MeanRating)
		if len(summary.BasedOn.TopGenres) > 0 {
			fmt.Printf("Top genres: %s\n", strings.Join(summary.BasedOn.TopGenres, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.AddCommand(recommendRefreshCmd)

	recommendCmd.Flags().Int("limit", 12, "Maximum number of recommendations")
}
