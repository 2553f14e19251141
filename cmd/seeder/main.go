package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/swiss-tournament/internal/database"
	"github.com/mauv0809/swiss-tournament/internal/metrics"
	"github.com/mauv0809/swiss-tournament/internal/notifier/slack"
	"github.com/mauv0809/swiss-tournament/internal/pubsub"
	"github.com/mauv0809/swiss-tournament/internal/records"
	"github.com/mauv0809/swiss-tournament/internal/swiss"
	"github.com/prometheus/client_golang/prometheus"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "seed.db",
		"MIGRATIONS_DIR":    "./migrations",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
		"SEED_PLAYERS":      "9",
		"SEED_ROUNDS":       "4",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			config[key] = value
		}
	}
	return config
}

func atoi(cfg map[string]string, key string) int {
	n, err := strconv.Atoi(cfg[key])
	if err != nil || n < 0 {
		log.Fatalf("Error: %s must be a non-negative integer, got %q", key, cfg[key])
	}
	return n
}

func main() {
	log.Info("Starting tournament seeder...")
	cfg := loadConfig()
	numPlayers := atoi(cfg, "SEED_PLAYERS")
	numRounds := atoi(cfg, "SEED_ROUNDS")

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	// Notifications are logged only and events are dropped.
	metricsSvc := metrics.NewService(prometheus.NewRegistry())
	service := swiss.New(records.New(db), slack.NewNotifier("", "", metricsSvc), metricsSvc, pubsub.NewDisabled())

	ctx := context.Background()
	if err := service.Reset(ctx); err != nil {
		log.Fatalf("Failed to reset tournament: %s", err)
	}

	for i := 0; i < numPlayers; i++ {
		if _, err := service.RegisterPlayer(ctx, fmt.Sprintf("Seeder Player %d", i+1)); err != nil {
			log.Fatalf("Failed to register player: %s", err)
		}
	}
	log.Info("Registered players", "count", numPlayers)

	startTime := time.Now()
	for r := 0; r < numRounds; r++ {
		round, err := service.NextRound(ctx, false)
		if err != nil {
			log.Fatalf("Failed to prepare round: %s", err)
		}
		for _, pairing := range round.Pairings {
			report := records.MatchReport{WinnerID: pairing.Player1ID, LoserID: pairing.Player2ID}
			if rand.Intn(2) == 1 {
				report.WinnerID, report.LoserID = report.LoserID, report.WinnerID
			}
			if _, err := service.ReportMatch(ctx, report); err != nil {
				log.Fatalf("Failed to report match: %s", err)
			}
		}
		log.Info("Played round", "round", round.Number, "matches", len(round.Pairings), "bye", round.Bye != nil)
	}

	standings, err := service.Standings(ctx)
	if err != nil {
		log.Fatalf("Failed to query standings: %s", err)
	}
	players, err := service.Players(ctx)
	if err != nil {
		log.Fatalf("Failed to list players: %s", err)
	}
	matches, err := service.Matches(ctx)
	if err != nil {
		log.Fatalf("Failed to list matches: %s", err)
	}

	// Cross-check the SQL aggregate against the in-memory tally.
	tally := swiss.Tally(players, matches)
	for i := range standings {
		if standings[i] != tally[i] {
			log.Fatalf("Standings mismatch at rank %d: store=%+v tally=%+v", i+1, standings[i], tally[i])
		}
	}
	if err := service.AnnounceStandings(ctx, true); err != nil {
		log.Error("Failed to announce standings", "error", err)
	}

	log.Info("Successfully seeded tournament.", "rounds", numRounds, "matches", len(matches), "duration", time.Since(startTime))
}
