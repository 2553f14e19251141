package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// It doubles as the topic name.
type EventType string

const (
	EventPlayerRegistered EventType = "player-registered"
	EventMatchReported    EventType = "match-reported"
	EventByeAwarded       EventType = "bye-awarded"
	EventRoundPaired      EventType = "round-paired"
)
