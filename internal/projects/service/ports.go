package service

import (
	"context"
	"time"

	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
	"github.com/markode-co/MarkodeAITool/internal/projects/events"
	tpldomain "github.com/markode-co/MarkodeAITool/internal/templates/domain"
)

// ProjectStore persists project records. Each call is atomic on its own; no
// multi-call transaction is assumed.
type ProjectStore interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
	Update(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error)
	UpdateIfStatus(ctx context.Context, id string, expected domain.Status, patch domain.ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	MarkStale(ctx context.Context, cutoff time.Time) ([]domain.Project, error)
}

// Generator is the code-generation client consumed by the orchestrators.
type Generator interface {
	Generate(ctx context.Context, prompt, framework, language string) (*domain.GeneratedArtifact, error)
}

// Improver rewrites a single file following free-text instructions.
type Improver interface {
	Improve(ctx context.Context, code, instructions string) (string, error)
}

// TemplateSource looks up starter templates.
type TemplateSource interface {
	Get(ctx context.Context, id string) (*tpldomain.Template, error)
}

// StatusPublisher is satisfied by events.RedisBus and events.Discard.
type StatusPublisher = events.Publisher
