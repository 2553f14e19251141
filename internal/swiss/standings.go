package swiss

import (
	"sort"

	"github.com/mauv0809/swiss-tournament/internal/records"
)

// SortStandings orders rows by wins, most first. Equal win counts are ordered
// by player id so the result never depends on the store's retrieval order.
func SortStandings(rows []records.StandingsRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
}

// Tally derives the standings from players and their match history in memory.
// A bye counts as one match played and one win for its sole participant.
func Tally(players []records.Player, matches []records.Match) []records.StandingsRow {
	rows := make([]records.StandingsRow, 0, len(players))
	index := make(map[int64]int, len(players))
	for _, p := range players {
		index[p.ID] = len(rows)
		rows = append(rows, records.StandingsRow{PlayerID: p.ID, Name: p.Name})
	}

	for _, m := range matches {
		for _, id := range participants(m) {
			i, ok := index[id]
			if !ok {
				continue
			}
			rows[i].MatchesPlayed++
			if m.WinnerID == id {
				rows[i].Wins++
			}
		}
	}

	SortStandings(rows)
	return rows
}

func participants(m records.Match) []int64 {
	if m.IsBye() {
		return []int64{m.WinnerID}
	}
	ids := make([]int64, 0, 2)
	if m.Player1ID != nil {
		ids = append(ids, *m.Player1ID)
	}
	if m.Player2ID != nil && (m.Player1ID == nil || *m.Player2ID != *m.Player1ID) {
		ids = append(ids, *m.Player2ID)
	}
	return ids
}

// roundNumber is the number of the round that follows the longest recorded history.
func roundNumber(rows []records.StandingsRow) int {
	played := 0
	for _, row := range rows {
		if row.MatchesPlayed > played {
			played = row.MatchesPlayed
		}
	}
	return played + 1
}
