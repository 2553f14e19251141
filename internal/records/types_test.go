package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchInvolves(t *testing.T) {
	one, two := int64(1), int64(2)

	tests := []struct {
		name   string
		match  Match
		player int64
		want   bool
	}{
		{"first slot", Match{Player1ID: &one, Player2ID: &two, WinnerID: 1}, 1, true},
		{"second slot", Match{Player1ID: &one, Player2ID: &two, WinnerID: 1}, 2, true},
		{"bystander", Match{Player1ID: &one, Player2ID: &two, WinnerID: 1}, 3, false},
		{"bye winner", Match{WinnerID: 3}, 3, true},
		{"not the bye winner", Match{WinnerID: 3}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.match.Involves(tt.player))
		})
	}
}
