package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// dbcon is the set of operations shared by *sql.DB and *sql.Tx.
type dbcon interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries implements Queries over either the pool or a single transaction.
type queries struct {
	con dbcon
}

// store handles all database operations for the tournament.
type store struct {
	queries
	db *sql.DB
	mu sync.Mutex
}

var _ Store = (*store)(nil)

// New creates a Store backed by db. The caller owns db and closes it.
func New(db *sql.DB) Store {
	return &store{
		queries: queries{con: db},
		db:      db,
	}
}

// Transaction runs fn inside a scoped transaction. Transactions are serialized
// because SQLite admits a single writer.
func (s *store) Transaction(ctx context.Context, fn func(Queries) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", ErrStoreUnavailable, err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(tx)
			panic(p)
		}
		if err != nil {
			rollback(tx)
		}
	}()

	if err = fn(&queries{con: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return translate(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Error("Failed to roll back transaction", "error", err)
	}
}

func (q *queries) InsertPlayer(ctx context.Context, name string) (int64, error) {
	res, err := q.con.ExecContext(ctx, "INSERT INTO players (name) VALUES (?)", name)
	if err != nil {
		return 0, translate(fmt.Errorf("failed to insert player: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read player id: %w", err)
	}
	log.Debug("Inserted player", "id", id, "name", name)
	return id, nil
}

func (q *queries) InsertMatch(ctx context.Context, player1ID, player2ID *int64, winnerID int64) (int64, error) {
	res, err := q.con.ExecContext(ctx,
		"INSERT INTO matches (player1_id, player2_id, winner_id) VALUES (?, ?, ?)",
		nullable(player1ID), nullable(player2ID), winnerID,
	)
	if err != nil {
		return 0, translate(fmt.Errorf("failed to insert match: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read match id: %w", err)
	}
	log.Debug("Inserted match", "id", id, "winner", winnerID)
	return id, nil
}

func (q *queries) DeleteAllPlayers(ctx context.Context) error {
	if _, err := q.con.ExecContext(ctx, "DELETE FROM players"); err != nil {
		return translate(fmt.Errorf("failed to delete players: %w", err))
	}
	return nil
}

func (q *queries) DeleteAllMatches(ctx context.Context) error {
	if _, err := q.con.ExecContext(ctx, "DELETE FROM matches"); err != nil {
		return translate(fmt.Errorf("failed to delete matches: %w", err))
	}
	return nil
}

func (q *queries) CountPlayers(ctx context.Context) (int, error) {
	var count int
	err := q.con.QueryRowContext(ctx, "SELECT count(*) FROM players").Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to count players: %w", ErrEmptyResult)
		}
		return 0, translate(fmt.Errorf("failed to count players: %w", err))
	}
	return count, nil
}

// A bye has both player slots empty, so it joins on its winner instead.
const standingsQuery = `
	SELECT
		p.id,
		p.name,
		COALESCE(SUM(CASE WHEN m.winner_id = p.id THEN 1 ELSE 0 END), 0) AS wins,
		COUNT(m.id) AS matches_played
	FROM players p
	LEFT OUTER JOIN matches m
		ON p.id = m.player1_id
		OR p.id = m.player2_id
		OR (m.player1_id IS NULL AND m.player2_id IS NULL AND m.winner_id = p.id)
	GROUP BY p.id, p.name
	ORDER BY wins DESC, p.id ASC
`

func (q *queries) QueryStandings(ctx context.Context) ([]StandingsRow, error) {
	rows, err := q.con.QueryContext(ctx, standingsQuery)
	if err != nil {
		return nil, translate(fmt.Errorf("failed to query standings: %w", err))
	}
	defer rows.Close()

	standings := []StandingsRow{}
	for rows.Next() {
		var row StandingsRow
		if err := rows.Scan(&row.PlayerID, &row.Name, &row.Wins, &row.MatchesPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		standings = append(standings, row)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(fmt.Errorf("failed to read standings: %w", err))
	}
	return standings, nil
}

func (q *queries) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.con.QueryContext(ctx, "SELECT id, name FROM players ORDER BY id")
	if err != nil {
		return nil, translate(fmt.Errorf("failed to query players: %w", err))
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(fmt.Errorf("failed to read players: %w", err))
	}
	return players, nil
}

func (q *queries) ListMatches(ctx context.Context) ([]Match, error) {
	rows, err := q.con.QueryContext(ctx, "SELECT id, player1_id, player2_id, winner_id FROM matches ORDER BY id")
	if err != nil {
		return nil, translate(fmt.Errorf("failed to query matches: %w", err))
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		var m Match
		var player1, player2 sql.NullInt64
		if err := rows.Scan(&m.ID, &player1, &player2, &m.WinnerID); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		if player1.Valid {
			m.Player1ID = &player1.Int64
		}
		if player2.Valid {
			m.Player2ID = &player2.Int64
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(fmt.Errorf("failed to read matches: %w", err))
	}
	return matches, nil
}

func (q *queries) LowestPlayerID(ctx context.Context) (int64, error) {
	var id int64
	err := q.con.QueryRowContext(ctx, "SELECT id FROM players ORDER BY id LIMIT 1").Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to find lowest player id: %w", ErrEmptyResult)
		}
		return 0, translate(fmt.Errorf("failed to find lowest player id: %w", err))
	}
	return id, nil
}

func (q *queries) MissingPlayers(ctx context.Context, ids ...int64) ([]int64, error) {
	var missing []int64
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		var exists bool
		err := q.con.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", id).Scan(&exists)
		if err != nil {
			return nil, translate(fmt.Errorf("failed to check player %d: %w", id, err))
		}
		if !exists {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func nullable(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
