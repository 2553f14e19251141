package swiss_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/mauv0809/swiss-tournament/internal/database"
	"github.com/mauv0809/swiss-tournament/internal/metrics"
	"github.com/mauv0809/swiss-tournament/internal/notifier"
	"github.com/mauv0809/swiss-tournament/internal/pubsub"
	"github.com/mauv0809/swiss-tournament/internal/records"
	"github.com/mauv0809/swiss-tournament/internal/swiss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *swiss.Service
	metrics  *metrics.Mock
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
}

// setupService wires a Service to an in-memory SQLite database and mocks.
func setupService(t *testing.T) (*fixture, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	f := &fixture{
		metrics:  metrics.NewMock(),
		notifier: notifier.NewMock(),
		pubsub:   pubsub.NewMock("TEST"),
	}
	f.svc = swiss.New(records.New(db), f.notifier, f.metrics, f.pubsub)
	return f, teardown
}

func register(t *testing.T, svc *swiss.Service, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		p, err := svc.RegisterPlayer(context.Background(), name)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return ids
}

func byID(standings []records.StandingsRow) map[int64]records.StandingsRow {
	out := make(map[int64]records.StandingsRow, len(standings))
	for _, row := range standings {
		out[row.PlayerID] = row
	}
	return out
}

func TestCountPlayers(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 8} {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			f, teardown := setupService(t)
			defer teardown()
			ctx := context.Background()

			for i := 0; i < n; i++ {
				register(t, f.svc, fmt.Sprintf("Player %d", i))
			}

			count, err := f.svc.CountPlayers(ctx)
			require.NoError(t, err)
			assert.Equal(t, n, count)
			assert.Equal(t, n, f.metrics.PlayersRegistered())

			require.NoError(t, f.svc.DeletePlayers(ctx))
			count, err = f.svc.CountPlayers(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, count)
		})
	}
}

func TestRegisterPlayer(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	p, err := f.svc.RegisterPlayer(ctx, "  Ada Lovelace ")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, []pubsub.EventType{pubsub.EventPlayerRegistered}, f.pubsub.Topics())

	_, err = f.svc.RegisterPlayer(ctx, "   ")
	assert.ErrorIs(t, err, swiss.ErrInvalidName)
}

func TestReportMatch_Standings(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	ids := register(t, f.svc, "One", "Two")

	match, err := f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: ids[0], LoserID: ids[1]})
	require.NoError(t, err)
	assert.Equal(t, ids[0], match.WinnerID)

	standings, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	rows := byID(standings)
	assert.Equal(t, 1, rows[ids[0]].Wins)
	assert.Equal(t, 1, rows[ids[0]].MatchesPlayed)
	assert.Equal(t, 0, rows[ids[1]].Wins)
	assert.Equal(t, 1, rows[ids[1]].MatchesPlayed)

	assert.Equal(t, 1, f.metrics.MatchesReported())
	assert.Contains(t, f.pubsub.Topics(), pubsub.EventMatchReported)
}

func TestReportMatch_RecordsWinnerInFirstSlot(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	ids := register(t, f.svc, "One", "Two")
	_, err := f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: ids[1], LoserID: ids[0]})
	require.NoError(t, err)

	matches, err := f.svc.Matches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, ids[1], *matches[0].Player1ID)
	assert.Equal(t, ids[0], *matches[0].Player2ID)
	assert.Equal(t, ids[1], matches[0].WinnerID)
}

func TestReportMatch_DrawIsRecordedAsDecisive(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	ids := register(t, f.svc, "One", "Two")
	_, err := f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: ids[0], LoserID: ids[1], Draw: true})
	require.NoError(t, err)

	standings, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, byID(standings)[ids[0]].Wins)
}

func TestReportMatch_UnknownPlayer(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	ids := register(t, f.svc, "One")
	f.pubsub.Reset()

	tests := []struct {
		name   string
		report records.MatchReport
	}{
		{"unknown loser", records.MatchReport{WinnerID: ids[0], LoserID: 99}},
		{"unknown winner", records.MatchReport{WinnerID: 99, LoserID: ids[0]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ReportMatch(ctx, tt.report)
			assert.ErrorIs(t, err, records.ErrForeignKey)
		})
	}

	matches, err := f.svc.Matches(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, 0, f.metrics.MatchesReported())
	assert.Empty(t, f.pubsub.Topics())
}

func TestFourPlayerScenario(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	ids := register(t, f.svc, "A", "B", "C", "D")
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]

	_, err := f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: a, LoserID: b})
	require.NoError(t, err)
	_, err = f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: c, LoserID: d})
	require.NoError(t, err)

	standings, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 4)
	assert.ElementsMatch(t, []int64{a, c}, []int64{standings[0].PlayerID, standings[1].PlayerID})
	assert.ElementsMatch(t, []int64{b, d}, []int64{standings[2].PlayerID, standings[3].PlayerID})
	for _, row := range standings[:2] {
		assert.Equal(t, 1, row.Wins)
	}
	for _, row := range standings[2:] {
		assert.Equal(t, 0, row.Wins)
	}

	pairings, err := f.svc.Pairings(ctx)
	require.NoError(t, err)
	require.Len(t, pairings, 2)

	winsOf := byID(standings)
	for _, p := range pairings {
		assert.Equal(t, winsOf[p.Player1ID].Wins, winsOf[p.Player2ID].Wins, "adjacent ranks share a win tier here")
	}
	assert.ElementsMatch(t, []int64{a, c}, []int64{pairings[0].Player1ID, pairings[0].Player2ID})
	assert.ElementsMatch(t, []int64{b, d}, []int64{pairings[1].Player1ID, pairings[1].Player2ID})
}

func TestStandings_Idempotent(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	ids := register(t, f.svc, "A", "B", "C", "D", "E", "F")
	_, err := f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: ids[3], LoserID: ids[0]})
	require.NoError(t, err)
	_, err = f.svc.AwardBye(ctx)
	require.NoError(t, err)

	first, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	second, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, f.metrics.StandingsObservations())
}

func TestStandings_MatchesInMemoryTally(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	names := make([]string, 9)
	for i := range names {
		names[i] = fmt.Sprintf("P%d", i)
	}
	ids := register(t, f.svc, names...)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 40; i++ {
		if rng.Intn(6) == 0 {
			_, err := f.svc.AwardBye(ctx)
			require.NoError(t, err)
			continue
		}
		w, l := ids[rng.Intn(len(ids))], ids[rng.Intn(len(ids))]
		if w == l {
			continue
		}
		_, err := f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: w, LoserID: l})
		require.NoError(t, err)
	}

	players, err := f.svc.Players(ctx)
	require.NoError(t, err)
	matches, err := f.svc.Matches(ctx)
	require.NoError(t, err)

	standings, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	assert.Equal(t, swiss.Tally(players, matches), standings)
	for _, row := range standings {
		assert.LessOrEqual(t, row.Wins, row.MatchesPlayed)
	}
}

func TestAwardBye(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	ids := register(t, f.svc, "A", "B", "C", "D", "E")

	playerID, err := f.svc.AwardBye(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[0], playerID, "the lowest id receives the bye")

	standings, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	rows := byID(standings)
	assert.Equal(t, 1, rows[ids[0]].Wins)
	assert.Equal(t, 1, rows[ids[0]].MatchesPlayed)
	for _, id := range ids[1:] {
		assert.Equal(t, 0, rows[id].MatchesPlayed)
	}

	matches, err := f.svc.Matches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].IsBye())

	assert.Equal(t, 1, f.metrics.ByesAwarded())
	assert.Contains(t, f.pubsub.Topics(), pubsub.EventByeAwarded)
}

func TestAwardBye_NoPlayers(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()

	_, err := f.svc.AwardBye(context.Background())
	assert.ErrorIs(t, err, records.ErrNoPlayers)
	assert.ErrorIs(t, err, records.ErrEmptyResult)
	assert.Equal(t, 0, f.metrics.ByesAwarded())
}

func TestPairings_OddCountDropsLowestRanked(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	ids := register(t, f.svc, "A", "B", "C", "D", "E")
	_, err := f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: ids[4], LoserID: ids[3]})
	require.NoError(t, err)

	standings, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	lowest := standings[len(standings)-1].PlayerID

	pairings, err := f.svc.Pairings(ctx)
	require.NoError(t, err)
	require.Len(t, pairings, 2)
	for _, p := range pairings {
		assert.NotEqual(t, lowest, p.Player1ID)
		assert.NotEqual(t, lowest, p.Player2ID)
	}
}

func TestNextRound(t *testing.T) {
	ctx := context.Background()

	t.Run("even field pairs everyone", func(t *testing.T) {
		f, teardown := setupService(t)
		defer teardown()
		register(t, f.svc, "A", "B", "C", "D")

		round, err := f.svc.NextRound(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 1, round.Number)
		assert.Nil(t, round.Bye)
		assert.Len(t, round.Pairings, 2)
		assert.Equal(t, 1, f.metrics.RoundsPaired())
		assert.Equal(t, 0, f.metrics.ByesAwarded())
		assert.Contains(t, f.pubsub.Topics(), pubsub.EventRoundPaired)
	})

	t.Run("odd field awards a bye and pairs the rest", func(t *testing.T) {
		f, teardown := setupService(t)
		defer teardown()
		ids := register(t, f.svc, "A", "B", "C", "D", "E")

		round, err := f.svc.NextRound(ctx, false)
		require.NoError(t, err)
		require.NotNil(t, round.Bye)
		assert.Equal(t, ids[0], round.Bye.ID)
		assert.Equal(t, "A", round.Bye.Name)
		require.Len(t, round.Pairings, 2)

		var paired []int64
		for _, p := range round.Pairings {
			paired = append(paired, p.Player1ID, p.Player2ID)
		}
		assert.ElementsMatch(t, ids[1:], paired)

		matches, err := f.svc.Matches(ctx)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.True(t, matches[0].IsBye())
		assert.Equal(t, 1, f.metrics.ByesAwarded())
		assert.Equal(t, pubsub.EventRoundPaired, f.pubsub.Topics()[len(f.pubsub.Topics())-1])
	})

	t.Run("round number follows the recorded history", func(t *testing.T) {
		f, teardown := setupService(t)
		defer teardown()
		ids := register(t, f.svc, "A", "B", "C", "D")
		_, err := f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: ids[0], LoserID: ids[1]})
		require.NoError(t, err)
		_, err = f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: ids[2], LoserID: ids[3]})
		require.NoError(t, err)

		round, err := f.svc.NextRound(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 2, round.Number)
	})

	t.Run("dry run keeps no bye", func(t *testing.T) {
		f, teardown := setupService(t)
		defer teardown()
		register(t, f.svc, "A", "B", "C")
		f.pubsub.Reset()

		round, err := f.svc.NextRound(ctx, true)
		require.NoError(t, err)
		require.NotNil(t, round.Bye)
		assert.Len(t, round.Pairings, 1)

		matches, err := f.svc.Matches(ctx)
		require.NoError(t, err)
		assert.Empty(t, matches, "the bye must be rolled back")
		assert.Empty(t, f.pubsub.Topics())
		require.Len(t, f.notifier.SendRoundCalls, 1)
		assert.True(t, f.notifier.SendRoundCalls[0].DryRun)
	})

	t.Run("empty field", func(t *testing.T) {
		f, teardown := setupService(t)
		defer teardown()

		round, err := f.svc.NextRound(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, round.Pairings)
		assert.Nil(t, round.Bye)
	})
}

func TestReset(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()

	ids := register(t, f.svc, "A", "B")
	_, err := f.svc.ReportMatch(ctx, records.MatchReport{WinnerID: ids[0], LoserID: ids[1]})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeletePlayers(ctx), records.ErrForeignKey)

	require.NoError(t, f.svc.Reset(ctx))
	count, err := f.svc.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	matches, err := f.svc.Matches(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestAnnounce(t *testing.T) {
	f, teardown := setupService(t)
	defer teardown()
	ctx := context.Background()
	register(t, f.svc, "A", "B")

	require.NoError(t, f.svc.AnnounceStandings(ctx, false))
	require.Len(t, f.notifier.SendStandingsCalls, 1)
	assert.Len(t, f.notifier.SendStandingsCalls[0].Standings, 2)

	round := records.Round{Number: 1, Pairings: []records.PairingRow{{Player1ID: 1, Player2ID: 2}}}
	require.NoError(t, f.svc.AnnounceRound(round, true))
	require.Len(t, f.notifier.SendRoundCalls, 1)
	assert.Equal(t, round, f.notifier.SendRoundCalls[0].Round)
}

func TestService_StoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable store propagates without retry", func(t *testing.T) {
		store := records.NewMock()
		store.TransactionFunc = func(ctx context.Context, fn func(records.Queries) error) error {
			return fmt.Errorf("%w: connection refused", records.ErrStoreUnavailable)
		}
		svc := swiss.New(store, notifier.NewMock(), metrics.NewMock(), pubsub.NewMock("TEST"))

		_, err := svc.Standings(ctx)
		assert.ErrorIs(t, err, records.ErrStoreUnavailable)
		_, err = svc.Pairings(ctx)
		assert.ErrorIs(t, err, records.ErrStoreUnavailable)
		assert.Equal(t, 2, store.TransactionCalls)
	})

	t.Run("failed insert rolls the bye back", func(t *testing.T) {
		store := records.NewMock()
		store.LowestPlayerIDFunc = func(ctx context.Context) (int64, error) { return 1, nil }
		insertErr := errors.New("disk I/O error")
		store.InsertMatchFunc = func(ctx context.Context, p1, p2 *int64, winner int64) (int64, error) {
			return 0, insertErr
		}
		m := metrics.NewMock()
		ps := pubsub.NewMock("TEST")
		svc := swiss.New(store, notifier.NewMock(), m, ps)

		_, err := svc.AwardBye(ctx)
		assert.ErrorIs(t, err, insertErr)
		assert.Equal(t, 1, store.RolledBack)
		assert.Equal(t, 0, m.ByesAwarded())
		assert.Empty(t, ps.SendMessageCalls)
	})

	t.Run("publish failure does not fail the operation", func(t *testing.T) {
		store := records.NewMock()
		ps := pubsub.NewMock("TEST")
		ps.SendMessageFunc = func(topic pubsub.EventType, data any) error { return errors.New("pubsub down") }
		svc := swiss.New(store, notifier.NewMock(), metrics.NewMock(), ps)

		p, err := svc.RegisterPlayer(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		require.Len(t, store.InsertPlayerCalls, 1)
	})
}
