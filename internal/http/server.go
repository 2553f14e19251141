package http

import (
	"net/http"

	"github.com/mauv0809/swiss-tournament/internal/config"
	"github.com/mauv0809/swiss-tournament/internal/http/handlers"
	"github.com/mauv0809/swiss-tournament/internal/pubsub"
	"github.com/mauv0809/swiss-tournament/internal/swiss"
)

func NewServer(service *swiss.Service, metricsHandler http.Handler, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Service:        service,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		PubSub:         pubsub,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /clear", Chain(handlers.ClearStoreHandler(s.Service), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(handlers.ListPlayersHandler(s.Service), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(handlers.RegisterPlayerHandler(s.Service), paramsMiddleware))
	s.Router.Handle("DELETE /players", Chain(handlers.DeletePlayersHandler(s.Service), paramsMiddleware))
	s.Router.Handle("GET /players/count", Chain(handlers.CountPlayersHandler(s.Service), paramsMiddleware))

	s.Router.Handle("GET /matches", Chain(handlers.ListMatchesHandler(s.Service), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(handlers.ReportMatchHandler(s.Service), paramsMiddleware))
	s.Router.Handle("DELETE /matches", Chain(handlers.DeleteMatchesHandler(s.Service), paramsMiddleware))

	s.Router.Handle("POST /bye", Chain(handlers.AwardByeHandler(s.Service), paramsMiddleware))
	s.Router.Handle("GET /standings", Chain(handlers.StandingsHandler(s.Service), paramsMiddleware))
	s.Router.Handle("GET /pairings", Chain(handlers.PairingsHandler(s.Service), paramsMiddleware))
	s.Router.Handle("POST /rounds/next", Chain(handlers.NextRoundHandler(s.Service), paramsMiddleware))

	s.Router.Handle("POST /notify/standings", Chain(handlers.NotifyStandingsHandler(s.Service), paramsMiddleware))
	s.Router.Handle("POST /pubsub/round-paired", Chain(handlers.RoundPairedHandler(s.Service, s.PubSub), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
