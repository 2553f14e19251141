package http

import (
	"net/http"

	"github.com/mauv0809/swiss-tournament/internal/config"
	"github.com/mauv0809/swiss-tournament/internal/pubsub"
	"github.com/mauv0809/swiss-tournament/internal/swiss"
)

type Server struct {
	Service        *swiss.Service
	MetricsHandler http.Handler
	Cfg            config.Config
	PubSub         pubsub.PubSubClient
	Router         *http.ServeMux
}
