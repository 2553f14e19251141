package swiss

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/swiss-tournament/internal/metrics"
	"github.com/mauv0809/swiss-tournament/internal/notifier"
	"github.com/mauv0809/swiss-tournament/internal/pubsub"
	"github.com/mauv0809/swiss-tournament/internal/records"
)

// ErrInvalidName is returned when registering a player with a blank name.
var ErrInvalidName = errors.New("player name must not be blank")

// errDryRun aborts a transaction whose writes must not be kept.
var errDryRun = errors.New("dry run")

// New creates a new Service.
func New(store records.Store, notifier notifier.Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		pubsub:   pubsub,
	}
}

// RegisterPlayer adds a player. Names need not be unique.
func (s *Service) RegisterPlayer(ctx context.Context, name string) (records.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return records.Player{}, ErrInvalidName
	}

	var player records.Player
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		id, err := q.InsertPlayer(ctx, name)
		if err != nil {
			return err
		}
		player = records.Player{ID: id, Name: name}
		return nil
	})
	if err != nil {
		return records.Player{}, err
	}

	s.metrics.IncPlayersRegistered()
	log.Info("Registered player", "id", player.ID, "name", player.Name)
	s.publish(pubsub.EventPlayerRegistered, PlayerRegisteredEvent{EventID: uuid.NewString(), Player: player})
	return player, nil
}

// CountPlayers returns the number of registered players.
func (s *Service) CountPlayers(ctx context.Context) (int, error) {
	var count int
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		var err error
		count, err = q.CountPlayers(ctx)
		return err
	})
	return count, err
}

// Players lists every registered player by id.
func (s *Service) Players(ctx context.Context) ([]records.Player, error) {
	var players []records.Player
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		var err error
		players, err = q.ListPlayers(ctx)
		return err
	})
	return players, err
}

// Matches lists every recorded match, byes included.
func (s *Service) Matches(ctx context.Context) ([]records.Match, error) {
	var matches []records.Match
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		var err error
		matches, err = q.ListMatches(ctx)
		return err
	})
	return matches, err
}

// DeletePlayers removes every player. It fails with records.ErrForeignKey while
// matches still reference them.
func (s *Service) DeletePlayers(ctx context.Context) error {
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		return q.DeleteAllPlayers(ctx)
	})
	if err == nil {
		log.Info("Deleted all players")
	}
	return err
}

// DeleteMatches removes every match, byes included.
func (s *Service) DeleteMatches(ctx context.Context) error {
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		return q.DeleteAllMatches(ctx)
	})
	if err == nil {
		log.Info("Deleted all matches")
	}
	return err
}

// Reset clears matches and then players in one transaction.
func (s *Service) Reset(ctx context.Context) error {
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		if err := q.DeleteAllMatches(ctx); err != nil {
			return err
		}
		return q.DeleteAllPlayers(ctx)
	})
	if err == nil {
		log.Info("Tournament reset")
	}
	return err
}

// ReportMatch records a decisive result. Both players must exist; the caller
// guarantees they differ. Draws are not representable: the flag is ignored and
// the result is recorded for WinnerID.
func (s *Service) ReportMatch(ctx context.Context, report records.MatchReport) (records.Match, error) {
	if report.Draw {
		log.Warn("Draws are not supported, recording a decisive result", "winner", report.WinnerID, "loser", report.LoserID)
	}

	match := records.Match{
		Player1ID: &report.WinnerID,
		Player2ID: &report.LoserID,
		WinnerID:  report.WinnerID,
	}
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		missing, err := q.MissingPlayers(ctx, report.WinnerID, report.LoserID)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: player %d", records.ErrForeignKey, missing[0])
		}
		match.ID, err = q.InsertMatch(ctx, match.Player1ID, match.Player2ID, match.WinnerID)
		return err
	})
	if err != nil {
		return records.Match{}, err
	}

	s.metrics.IncMatchesReported()
	log.Info("Reported match", "id", match.ID, "winner", report.WinnerID, "loser", report.LoserID)
	s.publish(pubsub.EventMatchReported, MatchReportedEvent{EventID: uuid.NewString(), Match: match})
	return match, nil
}

// AwardBye gives the lowest-id player a bye: a match won with no opponent.
// It does not check whether the field is odd.
func (s *Service) AwardBye(ctx context.Context) (int64, error) {
	var playerID int64
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		var err error
		playerID, err = awardBye(ctx, q)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.metrics.IncByesAwarded()
	log.Info("Awarded bye", "player", playerID)
	s.publish(pubsub.EventByeAwarded, ByeAwardedEvent{EventID: uuid.NewString(), PlayerID: playerID})
	return playerID, nil
}

func awardBye(ctx context.Context, q records.Queries) (int64, error) {
	playerID, err := q.LowestPlayerID(ctx)
	if err != nil {
		if errors.Is(err, records.ErrEmptyResult) {
			return 0, fmt.Errorf("cannot award bye: %w: %w", records.ErrNoPlayers, err)
		}
		return 0, err
	}
	if _, err := q.InsertMatch(ctx, nil, nil, playerID); err != nil {
		return 0, err
	}
	return playerID, nil
}

// Standings returns every player ranked by wins, ties broken by player id.
// Nothing is cached; each call reads the current records.
func (s *Service) Standings(ctx context.Context) ([]records.StandingsRow, error) {
	start := time.Now()
	var standings []records.StandingsRow
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		var err error
		standings, err = standingsFrom(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveStandingsDuration(time.Since(start).Seconds())
	return standings, nil
}

func standingsFrom(ctx context.Context, q records.Queries) ([]records.StandingsRow, error) {
	standings, err := q.QueryStandings(ctx)
	if err != nil {
		return nil, err
	}
	SortStandings(standings)
	return standings, nil
}

// Pairings pairs adjacent players in the current standings. With an odd field
// the lowest-ranked player is left out; award a bye first (or use NextRound)
// to avoid that.
func (s *Service) Pairings(ctx context.Context) ([]records.PairingRow, error) {
	standings, err := s.Standings(ctx)
	if err != nil {
		return nil, err
	}
	pairs, unpaired := Pair(standings)
	if unpaired != nil {
		log.Warn("Odd number of players, lowest-ranked player left unpaired", "player", unpaired.PlayerID, "name", unpaired.Name)
	}
	return pairs, nil
}

// NextRound prepares the next round. With an odd field the lowest-id player is
// awarded a bye first and everyone else is paired, so nobody is dropped.
// In a dry run the bye is rolled back and the round is only previewed.
func (s *Service) NextRound(ctx context.Context, dryRun bool) (records.Round, error) {
	var round records.Round
	err := s.store.Transaction(ctx, func(q records.Queries) error {
		standings, err := standingsFrom(ctx, q)
		if err != nil {
			return err
		}
		round.Number = roundNumber(standings)

		if len(standings)%2 != 0 {
			byeID, err := awardBye(ctx, q)
			if err != nil {
				return err
			}
			for _, row := range standings {
				if row.PlayerID == byeID {
					round.Bye = &records.Player{ID: row.PlayerID, Name: row.Name}
					break
				}
			}
			if standings, err = standingsFrom(ctx, q); err != nil {
				return err
			}
			standings = without(standings, byeID)
		}

		round.Pairings, _ = Pair(standings)
		if dryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return records.Round{}, err
	}

	if dryRun {
		log.Info("[Dry Run] Prepared round", "round", round.Number, "pairings", len(round.Pairings))
		if err := s.notifier.SendRound(round, true); err != nil {
			log.Error("Failed to preview round", "error", err)
		}
		return round, nil
	}

	s.metrics.IncRoundsPaired()
	if round.Bye != nil {
		s.metrics.IncByesAwarded()
		s.publish(pubsub.EventByeAwarded, ByeAwardedEvent{EventID: uuid.NewString(), PlayerID: round.Bye.ID})
	}
	log.Info("Prepared round", "round", round.Number, "pairings", len(round.Pairings))
	s.publish(pubsub.EventRoundPaired, RoundPairedEvent{EventID: uuid.NewString(), Round: round})
	return round, nil
}

// AnnounceRound sends a prepared round to the notifier.
func (s *Service) AnnounceRound(round records.Round, dryRun bool) error {
	return s.notifier.SendRound(round, dryRun)
}

// AnnounceStandings sends the current standings to the notifier.
func (s *Service) AnnounceStandings(ctx context.Context, dryRun bool) error {
	standings, err := s.Standings(ctx)
	if err != nil {
		return err
	}
	return s.notifier.SendStandings(standings, dryRun)
}

// publish is best effort: the records are already committed.
func (s *Service) publish(topic pubsub.EventType, event any) {
	if err := s.pubsub.SendMessage(topic, event); err != nil {
		log.Error("Failed to publish event", "error", err, "topic", topic)
	}
}
