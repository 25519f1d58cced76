package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	matchDate  string
	matchSlot  string
	winnerTeam int
	rangeStart string
	rangeEnd   string
)

func init() {
	matchesCmd.Flags().StringVar(&matchDate, "date", "", "Filter matches by date (YYYY-MM-DD)")
	matchesCmd.Flags().StringVar(&matchSlot, "slot", "", "Filter matches by start time (HH:MM)")
	bookCmd.Flags().StringVar(&matchDate, "date", "", "Match date (YYYY-MM-DD)")
	bookCmd.Flags().StringVar(&matchSlot, "slot", "", "Match start time (HH:MM)")
	completeCmd.Flags().IntVar(&winnerTeam, "winner", 0, "Winning team (1 or 2)")
	leaderboardCmd.Flags().StringVar(&rangeStart, "start", "", "Range start date (YYYY-MM-DD)")
	leaderboardCmd.Flags().StringVar(&rangeEnd, "end", "", "Range end date (YYYY-MM-DD)")
	pointsCmd.Flags().StringVar(&rangeStart, "start", "", "Range start date (YYYY-MM-DD)")
	pointsCmd.Flags().StringVar(&rangeEnd, "end", "", "Range end date (YYYY-MM-DD)")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(clearCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in the club store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List matches, optionally filtered by date and slot",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if matchDate != "" {
			params.Set("date", matchDate)
		}
		if matchSlot != "" {
			params.Set("slot", matchSlot)
		}
		endpoint := "/matches"
		if len(params) > 0 {
			endpoint += "?" + params.Encode()
		}
		return performGetRequest(endpoint)
	},
}

var bookCmd = &cobra.Command{
	Use:   "book [player1 player2 player3 player4]",
	Short: "Book a match for four players",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"match_date": matchDate,
			"match_time": matchSlot,
			"player_ids": args,
		}
		return performPostRequest("/matches", body)
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete [matchID] [score]",
	Short: "Record the final score of a match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"match_id":    args[0],
			"score":       args[1],
			"winner_team": winnerTeam,
		}
		return performPostRequest("/matches/complete", body)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the points leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard" + rangeQuery())
	},
}

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Show per-player bonus point counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard/points" + rangeQuery())
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the club store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/clear")
	},
}

func rangeQuery() string {
	params := url.Values{}
	if rangeStart != "" {
		params.Set("start", rangeStart)
	}
	if rangeEnd != "" {
		params.Set("end", rangeEnd)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
