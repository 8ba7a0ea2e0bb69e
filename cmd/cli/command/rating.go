package command

import (
	"fmt"
	"strconv"

	"animehub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rateCmd = &cobra.Command{
	Use:   "rate <anime-id> <score>",
	Short: "Rate an anime on a 1-10 scale",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}

		animeID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid anime ID: %s", args[0])
		}
		score, err := strconv.Atoi(args[1])
		if err != nil || score < 1 || score > 10 {
			return fmt.Errorf("score must be an integer between 1 and 10")
		}

		httpClient := client.NewHTTPClient(apiURL)
		httpClient.SetToken(token)
		rating, err := httpClient.RateAnime(animeID, score)
		if err != nil {
			return err
		}

		color.Green("Rated anime %d: %d/10", rating.AnimeID, rating.Score)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rateCmd)
}
