package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/swiss-tournament/internal/metrics"
	"github.com/mauv0809/swiss-tournament/internal/notifier"
	"github.com/mauv0809/swiss-tournament/internal/records"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. Without a token every message is only logged.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	var api slackClient
	if token != "" {
		api = slack.New(token)
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendRound announces the pairings for a round.
func (s *Notifier) SendRound(round records.Round, dryRun bool) error {
	_, _, err := s.sendMessage(FormatRound(round), dryRun)
	return err
}

// SendStandings posts the current standings table.
func (s *Notifier) SendStandings(standings []records.StandingsRow, dryRun bool) error {
	_, _, err := s.sendMessage(FormatStandings(standings), dryRun)
	return err
}

// FormatRound builds the Block Kit message for a paired round.
func FormatRound(round records.Round) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("♟️ Round %d pairings", round.Number), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(round.Pairings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", "_No pairings this round._", false, false), nil, nil))
	} else {
		lines := make([]string, 0, len(round.Pairings))
		for i, p := range round.Pairings {
			lines = append(lines, fmt.Sprintf("%d. *%s* vs *%s*", i+1, p.Name1, p.Name2))
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))
	}

	if round.Bye != nil {
		byeText := slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("%s receives a bye this round.", round.Bye.Name), false, false)
		blocks = append(blocks, slack.NewContextBlock("", byeText))
	}

	return slack.NewBlockMessage(blocks...)
}

// FormatStandings builds the Block Kit message for the standings table.
func FormatStandings(standings []records.StandingsRow) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Standings", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(standings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", "_No players registered yet._", false, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var sb strings.Builder
	sb.WriteString("```\n")
	sb.WriteString(fmt.Sprintf("%-4s %-24s %4s %7s\n", "#", "Player", "Wins", "Played"))
	for i, row := range standings {
		sb.WriteString(fmt.Sprintf("%-4d %-24s %4d %7d\n", i+1, truncate(row.Name, 24), row.Wins, row.MatchesPlayed))
	}
	sb.WriteString("```")
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", sb.String(), false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
