package swiss

import "github.com/mauv0809/swiss-tournament/internal/records"

// Pair splits ranked standings into consecutive pairs: first with second, third
// with fourth and so on. Rematches are not avoided. With an odd number of rows
// the lowest-ranked row is left out of the pairs and returned as unpaired.
func Pair(standings []records.StandingsRow) (pairs []records.PairingRow, unpaired *records.StandingsRow) {
	pairs = make([]records.PairingRow, 0, len(standings)/2)
	for i := 0; i+1 < len(standings); i += 2 {
		a, b := standings[i], standings[i+1]
		pairs = append(pairs, records.PairingRow{
			Player1ID: a.PlayerID,
			Name1:     a.Name,
			Player2ID: b.PlayerID,
			Name2:     b.Name,
		})
	}
	if len(standings)%2 != 0 {
		last := standings[len(standings)-1]
		unpaired = &last
	}
	return pairs, unpaired
}

func without(rows []records.StandingsRow, playerID int64) []records.StandingsRow {
	out := make([]records.StandingsRow, 0, len(rows))
	for _, row := range rows {
		if row.PlayerID != playerID {
			out = append(out, row)
		}
	}
	return out
}
