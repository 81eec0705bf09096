package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/markode-co/MarkodeAITool/internal/auth"
	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
	"github.com/markode-co/MarkodeAITool/internal/projects/events"
)

// streamEvents streams status updates for a project using Server-Sent Events (SSE).
// The stream ends once the project leaves building, is deleted, or the client disconnects.
func (h *Handler) streamEvents(c *gin.Context) {
	projectID := c.Param("id")
	userID := auth.UserFirebaseUID(c)
	ctx := c.Request.Context()

	p, err := h.projects.Get(ctx, userID, projectID)
	if err != nil {
		writeError(c, "stream_events", err)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	var updates <-chan events.StatusEvent
	if h.events != nil && p.Status == domain.StatusBuilding {
		updates, err = h.events.Subscribe(ctx, projectID)
		if err != nil {
			// polling below still observes the transition
			logging.New(ctx).LogWarnf("stream_events", "project_id=%s subscribe failed: %v", projectID, err)
			updates = nil
		}
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering
	c.Status(http.StatusOK)

	writeSSE(c, flusher, "initial", gin.H{"project": p})
	if p.Status != domain.StatusBuilding {
		return
	}

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()
	poll := time.NewTicker(h.pollInterval)
	defer poll.Stop()

	last := p.Status
	for {
		select {
		case <-ctx.Done():
			return

		case <-keepAlive.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case ev, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if ev.Status == last {
				continue
			}
			last = ev.Status
			writeSSE(c, flusher, "status", gin.H{"event": ev})
			if ev.Terminal() {
				return
			}

		case <-poll.C:
			cur, err := h.projects.Get(ctx, userID, projectID)
			if errors.Is(err, domain.ErrNotFound) {
				writeSSE(c, flusher, "deleted", gin.H{"event": "deleted", "project_id": projectID})
				return
			}
			if err != nil || cur.Status == last {
				continue
			}
			last = cur.Status
			ev := events.NewStatusEvent(cur, "")
			writeSSE(c, flusher, "status", gin.H{"event": ev})
			if ev.Terminal() {
				return
			}
		}
	}
}

func writeSSE(c *gin.Context, flusher http.Flusher, event string, payload any) {
	data, _ := json.Marshal(payload)
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(data))
	flusher.Flush()
}
