package slack

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/pitwall/internal/notify"
)

// mockClient records PostMessageContext calls and returns queued errors.
type mockClient struct {
	channels []string
	optCount []int
	errs     []error
}

func (m *mockClient) PostMessageContext(_ context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.channels = append(m.channels, channelID)
	m.optCount = append(m.optCount, len(options))
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return "", "", err
	}
	return channelID, "1700000000.000100", nil
}

func sampleMessage() notify.OutboundMessage {
	return notify.OutboundMessage{
		Text: "2024miwi pit scouting: 1/2 teams scouted",
		Events: []notify.FormattedEvent{{
			Title:  "2024miwi: pit scouting",
			Body:   "Still to scout: 1114",
			Color:  "#daa038",
			Fields: []notify.Field{{Name: "Scouted", Value: "1", Short: true}},
		}},
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(PosterOpts{ChannelID: "C1"}); err == nil || !strings.Contains(err.Error(), "bot token") {
		t.Errorf("missing token error = %v", err)
	}
	if _, err := New(PosterOpts{BotToken: "xoxb"}); err == nil || !strings.Contains(err.Error(), "channel") {
		t.Errorf("missing channel error = %v", err)
	}
	p, err := New(PosterOpts{BotToken: "xoxb-test", ChannelID: "C1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Platform() != "slack" {
		t.Errorf("Platform() = %q", p.Platform())
	}
}

func TestSend(t *testing.T) {
	mc := &mockClient{}
	p, err := New(PosterOpts{ChannelID: "C123", Client: mc})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Send(context.Background(), sampleMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(mc.channels) != 1 || mc.channels[0] != "C123" {
		t.Errorf("channels = %v", mc.channels)
	}
	if mc.optCount[0] != 2 {
		t.Errorf("options = %d, want text + attachments", mc.optCount[0])
	}
}

func TestSend_RetriesRateLimit(t *testing.T) {
	mc := &mockClient{errs: []error{&slackapi.RateLimitedError{RetryAfter: time.Millisecond}}}
	p, _ := New(PosterOpts{ChannelID: "C1", Client: mc})
	if err := p.Send(context.Background(), sampleMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(mc.channels) != 2 {
		t.Errorf("calls = %d, want 2", len(mc.channels))
	}
}

func TestSend_NonRateLimitErrorNotRetried(t *testing.T) {
	mc := &mockClient{errs: []error{errors.New("channel_not_found")}}
	p, _ := New(PosterOpts{ChannelID: "C1", Client: mc})
	err := p.Send(context.Background(), sampleMessage())
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Fatalf("Send error = %v", err)
	}
	if len(mc.channels) != 1 {
		t.Errorf("calls = %d, want 1", len(mc.channels))
	}
}

func TestEventToAttachment(t *testing.T) {
	att := eventToAttachment(sampleMessage().Events[0])
	if att.Title != "2024miwi: pit scouting" || att.Color != "#daa038" || att.Fallback != att.Title {
		t.Errorf("attachment = %+v", att)
	}
	if len(att.Fields) != 1 || !att.Fields[0].Short || att.Fields[0].Title != "Scouted" {
		t.Errorf("fields = %+v", att.Fields)
	}
}
