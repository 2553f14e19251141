package notifier

import (
	"sync"

	"github.com/mauv0809/swiss-tournament/internal/records"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendRoundFunc     func(round records.Round, dryRun bool) error
	SendStandingsFunc func(standings []records.StandingsRow, dryRun bool) error

	SendRoundCalls     []SendRoundCall
	SendStandingsCalls []SendStandingsCall
}

// SendRoundCall holds the arguments for a call to SendRound.
type SendRoundCall struct {
	Round  records.Round
	DryRun bool
}

// SendStandingsCall holds the arguments for a call to SendStandings.
type SendStandingsCall struct {
	Standings []records.StandingsRow
	DryRun    bool
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendRound(round records.Round, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRoundCalls = append(m.SendRoundCalls, SendRoundCall{Round: round, DryRun: dryRun})
	if m.SendRoundFunc != nil {
		return m.SendRoundFunc(round, dryRun)
	}
	return nil
}

func (m *Mock) SendStandings(standings []records.StandingsRow, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, SendStandingsCall{Standings: standings, DryRun: dryRun})
	if m.SendStandingsFunc != nil {
		return m.SendStandingsFunc(standings, dryRun)
	}
	return nil
}
