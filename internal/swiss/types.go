package swiss

import (
	"github.com/mauv0809/swiss-tournament/internal/metrics"
	"github.com/mauv0809/swiss-tournament/internal/notifier"
	"github.com/mauv0809/swiss-tournament/internal/pubsub"
	"github.com/mauv0809/swiss-tournament/internal/records"
)

// Service runs the tournament operations, each inside one scoped store transaction.
type Service struct {
	store    records.Store
	notifier notifier.Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
}

// PlayerRegisteredEvent is published after a registration commits.
type PlayerRegisteredEvent struct {
	EventID string         `msgpack:"event_id"`
	Player  records.Player `msgpack:"player"`
}

// MatchReportedEvent is published after a match result commits.
type MatchReportedEvent struct {
	EventID string        `msgpack:"event_id"`
	Match   records.Match `msgpack:"match"`
}

// ByeAwardedEvent is published after a bye commits.
type ByeAwardedEvent struct {
	EventID  string `msgpack:"event_id"`
	PlayerID int64  `msgpack:"player_id"`
}

// RoundPairedEvent is published after a round is prepared. Push subscribers
// announce it.
type RoundPairedEvent struct {
	EventID string        `msgpack:"event_id"`
	Round   records.Round `msgpack:"round"`
}
