// Package notify posts scouting coverage digests to chat platforms (Slack,
// Discord) on demand or on a cron schedule.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zulandar/pitwall/internal/roster"
	"github.com/zulandar/pitwall/internal/store"
)

// Poster is the interface that platform-specific implementations satisfy.
type Poster interface {
	// Platform names the chat platform, e.g. "slack".
	Platform() string
	// Send delivers one message to the poster's channel.
	Send(ctx context.Context, msg OutboundMessage) error
}

// OutboundMessage is a message to be sent to a chat platform.
type OutboundMessage struct {
	Text   string           // plain-text fallback
	Events []FormattedEvent // structured attachments
}

// FormattedEvent is a digest block formatted for display in chat.
type FormattedEvent struct {
	Title  string
	Body   string
	Color  string // sidebar color hint, e.g. "#36a64f"
	Fields []Field
}

// Field is a key-value pair displayed in an event attachment.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}

const (
	colorDone    = "#36a64f"
	colorPending = "#daa038"
	colorEmpty   = "#a0a0a0"

	// maxPendingListed caps the team numbers spelled out in a digest.
	maxPendingListed = 30
)

// BuildDigest formats a roster's coverage.
func BuildDigest(r *roster.Roster) OutboundMessage {
	scouted, total := r.Coverage()
	text := fmt.Sprintf("%s %s scouting: %d/%d teams scouted", r.Event, r.Mode, scouted, total)

	evt := FormattedEvent{
		Title: fmt.Sprintf("%s: %s scouting", r.Event, r.Mode),
		Fields: []Field{
			{Name: "Scouted", Value: strconv.Itoa(scouted), Short: true},
			{Name: "Remaining", Value: strconv.Itoa(total - scouted), Short: true},
		},
	}
	switch {
	case total == 0:
		evt.Body = "No team list loaded for this event."
		evt.Color = colorEmpty
	case scouted == total:
		evt.Body = "Every team has been scouted."
		evt.Color = colorDone
	default:
		evt.Body = "Still to scout: " + pendingList(r.Pending())
		evt.Color = colorPending
	}
	return OutboundMessage{Text: text, Events: []FormattedEvent{evt}}
}

func pendingList(pending []roster.Entry) string {
	parts := make([]string, 0, min(len(pending), maxPendingListed))
	for i, e := range pending {
		if i == maxPendingListed {
			parts = append(parts, fmt.Sprintf("and %d more", len(pending)-maxPendingListed))
			break
		}
		parts = append(parts, strconv.Itoa(e.TeamNumber))
	}
	return strings.Join(parts, ", ")
}

// SendDigest builds the digest for event and sends it to every poster. All
// posters are attempted; their errors are joined.
func SendDigest(ctx context.Context, s store.Store, event, mode string, posters []Poster) error {
	if len(posters) == 0 {
		return fmt.Errorf("notify: no chat platform configured")
	}
	r, err := roster.Build(s, event, mode)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	msg := BuildDigest(r)

	var errs []error
	for _, p := range posters {
		if err := p.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("notify: %s: %w", p.Platform(), err))
		}
	}
	return errors.Join(errs...)
}
