package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	winnerID int64
	loserID  int64
	draw     bool
	dryRun   bool
)

func init() {
	reportCmd.Flags().Int64Var(&winnerID, "winner", 0, "ID of the winning player")
	reportCmd.Flags().Int64Var(&loserID, "loser", 0, "ID of the losing player")
	reportCmd.Flags().BoolVar(&draw, "draw", false, "Mark the match as a draw (recorded as a decisive result)")
	reportCmd.MarkFlagRequired("winner")
	reportCmd.MarkFlagRequired("loser")

	nextRoundCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the round without recording the bye")
	notifyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the message instead of posting it")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(byeCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(pairingsCmd)
	rootCmd.AddCommand(nextRoundCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [name]",
	Short: "Register a player",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performJSONRequest(http.MethodPost, "/players", map[string]string{"name": strings.Join(args, " ")})
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/count")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recorded matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report the result of a match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performJSONRequest(http.MethodPost, "/matches", map[string]any{
			"winner_id": winnerID,
			"loser_id":  loserID,
			"draw":      draw,
		})
	},
}

var byeCmd = &cobra.Command{
	Use:   "bye",
	Short: "Award a bye to the lowest-id player",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/bye", nil)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the current standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/standings")
	},
}

var pairingsCmd = &cobra.Command{
	Use:   "pairings",
	Short: "Show pairings for the next round",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/pairings")
	},
}

var nextRoundCmd = &cobra.Command{
	Use:   "next-round",
	Short: "Prepare the next round, awarding a bye when the field is odd",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/rounds/next?dry_run="+strconv.FormatBool(dryRun), nil)
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify-standings",
	Short: "Post the current standings to Slack",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/notify/standings?dry_run="+strconv.FormatBool(dryRun), nil)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every match and player",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/clear", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	return performRequest(http.MethodGet, endpoint, nil)
}

func performJSONRequest(method, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return performRequest(method, endpoint, bytes.NewReader(body))
}

func performRequest(method, endpoint string, body io.Reader) error {
	url := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, url)

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
