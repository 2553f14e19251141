package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/swiss-tournament/internal/records"
	"github.com/mauv0809/swiss-tournament/internal/swiss"
)

var errBadBody = errors.New("invalid request body")

type registerPlayerRequest struct {
	Name string `json:"name"`
}

type reportMatchRequest struct {
	WinnerID int64 `json:"winner_id"`
	LoserID  int64 `json:"loser_id"`
	Draw     bool  `json:"draw"`
}

func ListPlayersHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := service.Players(r.Context())
		if err != nil {
			writeError(w, "Failed to get players", err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func RegisterPlayerHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("Failed to decode register request", "error", err)
			http.Error(w, errBadBody.Error(), http.StatusBadRequest)
			return
		}
		player, err := service.RegisterPlayer(r.Context(), req.Name)
		if err != nil {
			writeError(w, "Failed to register player", err)
			return
		}
		writeJSON(w, http.StatusCreated, player)
	}
}

func CountPlayersHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := service.CountPlayers(r.Context())
		if err != nil {
			writeError(w, "Failed to count players", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": count})
	}
}

func DeletePlayersHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.DeletePlayers(r.Context()); err != nil {
			writeError(w, "Failed to delete players", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ListMatchesHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := service.Matches(r.Context())
		if err != nil {
			writeError(w, "Failed to get matches", err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func ReportMatchHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("Failed to decode match report", "error", err)
			http.Error(w, errBadBody.Error(), http.StatusBadRequest)
			return
		}
		if req.WinnerID == 0 || req.LoserID == 0 {
			http.Error(w, "winner_id and loser_id are required", http.StatusBadRequest)
			return
		}
		match, err := service.ReportMatch(r.Context(), records.MatchReport{
			WinnerID: req.WinnerID,
			LoserID:  req.LoserID,
			Draw:     req.Draw,
		})
		if err != nil {
			writeError(w, "Failed to report match", err)
			return
		}
		writeJSON(w, http.StatusCreated, match)
	}
}

func DeleteMatchesHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.DeleteMatches(r.Context()); err != nil {
			writeError(w, "Failed to delete matches", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AwardByeHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, err := service.AwardBye(r.Context())
		if err != nil {
			writeError(w, "Failed to award bye", err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"player_id": playerID})
	}
}

func StandingsHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		standings, err := service.Standings(r.Context())
		if err != nil {
			writeError(w, "Failed to get standings", err)
			return
		}
		writeJSON(w, http.StatusOK, standings)
	}
}

func PairingsHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairings, err := service.Pairings(r.Context())
		if err != nil {
			writeError(w, "Failed to get pairings", err)
			return
		}
		writeJSON(w, http.StatusOK, pairings)
	}
}

func NextRoundHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := IsDryRunFromContext(r)
		round, err := service.NextRound(r.Context(), isDryRun)
		if err != nil {
			writeError(w, "Failed to prepare next round", err)
			return
		}
		status := http.StatusCreated
		if isDryRun {
			status = http.StatusOK
		}
		writeJSON(w, status, round)
	}
}
