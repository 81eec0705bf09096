package events

import (
	"context"
	"time"

	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
)

// StatusEvent announces a project status change.
type StatusEvent struct {
	ProjectID string        `json:"project_id"`
	OwnerID   string        `json:"owner_id"`
	Status    domain.Status `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	At        time.Time     `json:"at"`
}

// NewStatusEvent builds the event for the current state of p.
func NewStatusEvent(p *domain.Project, reason string) StatusEvent {
	return StatusEvent{
		ProjectID: p.ID,
		OwnerID:   p.OwnerID,
		Status:    p.Status,
		Reason:    reason,
		At:        time.Now().UTC(),
	}
}

// Terminal reports whether no further automatic transition follows this event.
func (e StatusEvent) Terminal() bool {
	return e.Status != domain.StatusBuilding
}

// Publisher fans status events out to listeners.
type Publisher interface {
	Publish(ctx context.Context, ev StatusEvent) error
}

// Discard drops every event. Used when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, StatusEvent) error { return nil }
