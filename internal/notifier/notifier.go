package notifier

import "github.com/mauv0809/swiss-tournament/internal/records"

// Notifier defines a high-level interface for announcing tournament events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For a newly paired round, including its bye
	SendRound(round records.Round, dryRun bool) error
	// For the current standings
	SendStandings(standings []records.StandingsRow, dryRun bool) error
}
