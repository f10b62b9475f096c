package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/pitwall/internal/roster"
)

const (
	defaultPollInterval = 3 * time.Second
	heartbeatInterval   = 15 * time.Second
)

// coverageEvent is sent whenever an event's scouting coverage changes.
type coverageEvent struct {
	Event   string `json:"event"`
	Mode    string `json:"mode"`
	Scouted int    `json:"scouted"`
	Total   int    `json:"total"`
}

// handleCoverageSSE streams coverage for one event, polling the store and
// emitting only when the counts change.
func handleCoverageSSE(srv *server, poll time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		event := c.Query("event")
		if event == "" {
			abort(c, http.StatusBadRequest, "event is required")
			return
		}
		mode := c.Query("mode")

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
		c.Writer.Flush()

		var last coverageEvent
		check := func() bool {
			r, err := roster.Build(srv.store, event, mode)
			if err != nil {
				writeSSE(c.Writer, "error", map[string]string{"error": err.Error()})
				c.Writer.Flush()
				return false
			}
			scouted, total := r.Coverage()
			cur := coverageEvent{Event: r.Event, Mode: r.Mode, Scouted: scouted, Total: total}
			if cur != last {
				last = cur
				writeSSE(c.Writer, "coverage", cur)
				c.Writer.Flush()
			}
			return true
		}
		if !check() {
			return
		}

		ctx := c.Request.Context()
		ticker := time.NewTicker(poll)
		heartbeat := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				if !check() {
					return
				}
			}
		}
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
