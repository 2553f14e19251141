package records

// Player is a registered tournament participant. IDs are assigned by the store.
type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Match is a recorded result. A match with neither player slot set is a bye
// awarded to WinnerID.
type Match struct {
	ID        int64  `json:"id"`
	Player1ID *int64 `json:"player1_id,omitempty"`
	Player2ID *int64 `json:"player2_id,omitempty"`
	WinnerID  int64  `json:"winner_id"`
}

// IsBye reports whether the match is an awarded bye.
func (m Match) IsBye() bool {
	return m.Player1ID == nil && m.Player2ID == nil
}

// Involves reports whether playerID took part in the match, counting the sole
// participant of a bye.
func (m Match) Involves(playerID int64) bool {
	if m.IsBye() {
		return m.WinnerID == playerID
	}
	return (m.Player1ID != nil && *m.Player1ID == playerID) ||
		(m.Player2ID != nil && *m.Player2ID == playerID)
}

// StandingsRow is one player's line in the standings. It is derived on every
// query and never stored.
type StandingsRow struct {
	PlayerID      int64  `json:"player_id"`
	Name          string `json:"name"`
	Wins          int    `json:"wins"`
	MatchesPlayed int    `json:"matches_played"`
}

// PairingRow is one head-to-head assignment for the next round.
type PairingRow struct {
	Player1ID int64  `json:"player1_id"`
	Name1     string `json:"name1"`
	Player2ID int64  `json:"player2_id"`
	Name2     string `json:"name2"`
}

// Round is the outcome of preparing the next round: its pairings and, when the
// field was odd, the player who received the bye.
type Round struct {
	Number   int          `json:"number"`
	Pairings []PairingRow `json:"pairings"`
	Bye      *Player      `json:"bye,omitempty"`
}

// MatchReport is the input to recording a decisive result.
// Draw is accepted but not recorded.
type MatchReport struct {
	WinnerID int64 `json:"winner_id"`
	LoserID  int64 `json:"loser_id"`
	Draw     bool  `json:"draw"`
}
