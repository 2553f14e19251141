package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/swiss-tournament/internal/pubsub"
	"github.com/mauv0809/swiss-tournament/internal/swiss"
)

// pushMessage is the envelope of a Pub/Sub push subscription request.
type pushMessage struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
}

func RoundPairedHandler(service *swiss.Service, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received round paired message", "body", string(bodyBytes))

		var pubsubMsg pushMessage
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event swiss.RoundPairedEvent
		if err := pubsubClient.ProcessMessage(rawData, &event); err != nil {
			log.Error("Failed to decode round paired event", "error", err)
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}
		log.Info("Announcing round", "event_id", event.EventID, "round", event.Round.Number)

		// A non-2xx response makes Pub/Sub redeliver.
		if err := service.AnnounceRound(event.Round, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce round", "error", err, "round", event.Round.Number)
			http.Error(w, "Failed to announce round", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func NotifyStandingsHandler(service *swiss.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.AnnounceStandings(r.Context(), IsDryRunFromContext(r)); err != nil {
			writeError(w, "Failed to announce standings", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Standings sent!")
	}
}
