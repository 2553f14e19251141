package records

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// Transaction hands the mock itself to fn, so Func hooks and call records see
// transactional calls too. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	InsertPlayerFunc     func(ctx context.Context, name string) (int64, error)
	InsertMatchFunc      func(ctx context.Context, player1ID, player2ID *int64, winnerID int64) (int64, error)
	DeleteAllPlayersFunc func(ctx context.Context) error
	DeleteAllMatchesFunc func(ctx context.Context) error
	CountPlayersFunc     func(ctx context.Context) (int, error)
	QueryStandingsFunc   func(ctx context.Context) ([]StandingsRow, error)
	ListPlayersFunc      func(ctx context.Context) ([]Player, error)
	ListMatchesFunc      func(ctx context.Context) ([]Match, error)
	LowestPlayerIDFunc   func(ctx context.Context) (int64, error)
	MissingPlayersFunc   func(ctx context.Context, ids ...int64) ([]int64, error)
	TransactionFunc      func(ctx context.Context, fn func(Queries) error) error

	// Call records
	InsertPlayerCalls []string
	InsertMatchCalls  []InsertMatchCall
	TransactionCalls  int
	RolledBack        int
}

// InsertMatchCall holds the arguments for a call to InsertMatch.
type InsertMatchCall struct {
	Player1ID *int64
	Player2ID *int64
	WinnerID  int64
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertPlayerCalls = nil
	m.InsertMatchCalls = nil
	m.TransactionCalls = 0
	m.RolledBack = 0
}

func (m *MockStore) Transaction(ctx context.Context, fn func(Queries) error) error {
	m.mu.Lock()
	m.TransactionCalls++
	hook := m.TransactionFunc
	m.mu.Unlock()

	if hook != nil {
		return hook(ctx, fn)
	}
	err := fn(m)
	if err != nil {
		m.mu.Lock()
		m.RolledBack++
		m.mu.Unlock()
	}
	return err
}

func (m *MockStore) InsertPlayer(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	m.InsertPlayerCalls = append(m.InsertPlayerCalls, name)
	n := int64(len(m.InsertPlayerCalls))
	m.mu.Unlock()
	if m.InsertPlayerFunc != nil {
		return m.InsertPlayerFunc(ctx, name)
	}
	return n, nil
}

func (m *MockStore) InsertMatch(ctx context.Context, player1ID, player2ID *int64, winnerID int64) (int64, error) {
	m.mu.Lock()
	m.InsertMatchCalls = append(m.InsertMatchCalls, InsertMatchCall{Player1ID: player1ID, Player2ID: player2ID, WinnerID: winnerID})
	n := int64(len(m.InsertMatchCalls))
	m.mu.Unlock()
	if m.InsertMatchFunc != nil {
		return m.InsertMatchFunc(ctx, player1ID, player2ID, winnerID)
	}
	return n, nil
}

func (m *MockStore) DeleteAllPlayers(ctx context.Context) error {
	if m.DeleteAllPlayersFunc != nil {
		return m.DeleteAllPlayersFunc(ctx)
	}
	return nil
}

func (m *MockStore) DeleteAllMatches(ctx context.Context) error {
	if m.DeleteAllMatchesFunc != nil {
		return m.DeleteAllMatchesFunc(ctx)
	}
	return nil
}

func (m *MockStore) CountPlayers(ctx context.Context) (int, error) {
	if m.CountPlayersFunc != nil {
		return m.CountPlayersFunc(ctx)
	}
	return 0, nil
}

func (m *MockStore) QueryStandings(ctx context.Context) ([]StandingsRow, error) {
	if m.QueryStandingsFunc != nil {
		return m.QueryStandingsFunc(ctx)
	}
	return []StandingsRow{}, nil
}

func (m *MockStore) ListPlayers(ctx context.Context) ([]Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(ctx)
	}
	return []Player{}, nil
}

func (m *MockStore) ListMatches(ctx context.Context) ([]Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(ctx)
	}
	return []Match{}, nil
}

func (m *MockStore) LowestPlayerID(ctx context.Context) (int64, error) {
	if m.LowestPlayerIDFunc != nil {
		return m.LowestPlayerIDFunc(ctx)
	}
	return 0, ErrEmptyResult
}

func (m *MockStore) MissingPlayers(ctx context.Context, ids ...int64) ([]int64, error) {
	if m.MissingPlayersFunc != nil {
		return m.MissingPlayersFunc(ctx, ids...)
	}
	return nil, nil
}
