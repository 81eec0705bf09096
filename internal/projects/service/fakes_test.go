package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
	"github.com/markode-co/MarkodeAITool/internal/projects/events"
	tpldomain "github.com/markode-co/MarkodeAITool/internal/templates/domain"
)

type fakeGenerator struct {
	release  chan struct{}
	art      *domain.GeneratedArtifact
	err      error
	panicMsg string
	calls    atomic.Int32
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt, framework, language string) (*domain.GeneratedArtifact, error) {
	g.calls.Add(1)
	if g.release != nil {
		<-g.release
	}
	if g.panicMsg != "" {
		panic(g.panicMsg)
	}
	return g.art.Clone(), g.err
}

type spyImprover struct {
	out   string
	err   error
	calls atomic.Int32
}

func (s *spyImprover) Improve(ctx context.Context, code, instructions string) (string, error) {
	s.calls.Add(1)
	return s.out, s.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.StatusEvent
}

func (r *recordingPublisher) Publish(_ context.Context, ev events.StatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) statuses() []domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Status, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Status)
	}
	return out
}

type fakeTemplates map[string]*tpldomain.Template

func (f fakeTemplates) Get(_ context.Context, id string) (*tpldomain.Template, error) {
	t, ok := f[id]
	if !ok {
		return nil, tpldomain.ErrNotFound
	}
	return t, nil
}

func waitForTasks(t *testing.T, s *GenerationService) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func shopArtifact() *domain.GeneratedArtifact {
	return &domain.GeneratedArtifact{
		Files:                  map[string]string{"index.html": "<html></html>"},
		Framework:              "react",
		Language:               "javascript",
		DeploymentInstructions: "serve index.html",
	}
}
