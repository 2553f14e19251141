package records

import "context"

// Queries are the record operations. They run either as auto-commit statements
// or, through Store.Transaction, inside one scoped transaction.
type Queries interface {
	InsertPlayer(ctx context.Context, name string) (int64, error)
	// InsertMatch records a result. Passing nil for both player slots records a bye.
	InsertMatch(ctx context.Context, player1ID, player2ID *int64, winnerID int64) (int64, error)
	DeleteAllPlayers(ctx context.Context) error
	DeleteAllMatches(ctx context.Context) error
	CountPlayers(ctx context.Context) (int, error)
	// QueryStandings aggregates every player's wins and matches played, most wins first.
	QueryStandings(ctx context.Context) ([]StandingsRow, error)
	ListPlayers(ctx context.Context) ([]Player, error)
	ListMatches(ctx context.Context) ([]Match, error)
	// LowestPlayerID returns ErrEmptyResult when no players are registered.
	LowestPlayerID(ctx context.Context) (int64, error)
	// MissingPlayers returns the ids from the argument list that do not reference a player.
	MissingPlayers(ctx context.Context, ids ...int64) ([]int64, error)
}

// Store is the durable record store for players and matches.
type Store interface {
	Queries
	// Transaction runs fn in a transaction that commits iff fn returns nil.
	// Any error or panic rolls the transaction back before it is surfaced.
	Transaction(ctx context.Context, fn func(Queries) error) error
}
