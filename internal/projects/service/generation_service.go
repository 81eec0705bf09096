package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
	"github.com/markode-co/MarkodeAITool/internal/projects/events"
)

// GenerationService creates projects from prompts. The placeholder record is
// written synchronously; generation and write-back run in a detached task.
type GenerationService struct {
	store     ProjectStore
	generator Generator
	publisher StatusPublisher

	wg sync.WaitGroup
}

func NewGenerationService(store ProjectStore, generator Generator, publisher StatusPublisher) *GenerationService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &GenerationService{
		store:     store,
		generator: generator,
		publisher: publisher,
	}
}

// CreateFromPrompt validates the prompt, persists a building record and returns
// it before generation starts. Exactly one generation attempt follows; its
// outcome moves the record to ready or error.
func (s *GenerationService) CreateFromPrompt(ctx context.Context, ownerID, name, framework, language, description, prompt string) (*domain.Project, error) {
	if err := domain.ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, &domain.ValidationError{Field: "owner_id", Message: "is required"}
	}

	p, err := s.store.Create(ctx, &domain.Project{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Prompt:      prompt,
		Framework:   strings.TrimSpace(framework),
		Language:    strings.TrimSpace(language),
		Status:      domain.StatusBuilding,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	logging.New(ctx).LogInfof("create_from_prompt", "project_id=%s owner_id=%s status=building", p.ID, ownerID)
	s.publish(ctx, events.NewStatusEvent(p, ""))

	// the task outlives the request but keeps its values (request id) for log correlation
	taskCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go s.run(taskCtx, p.ID, p.OwnerID, prompt, p.Framework, p.Language)

	return p, nil
}

// Regenerate starts a fresh generation from an existing project's prompt. The
// result is a new project; the original record is left untouched.
func (s *GenerationService) Regenerate(ctx context.Context, requesterID, projectID string) (*domain.Project, error) {
	src, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !src.OwnedBy(requesterID) {
		return nil, domain.ErrForbidden
	}
	return s.CreateFromPrompt(ctx, requesterID, src.Name, src.Framework, src.Language, src.Description, src.Prompt)
}

// Wait blocks until all in-flight generation tasks have resolved or ctx is done.
func (s *GenerationService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *GenerationService) run(ctx context.Context, projectID, ownerID, prompt, framework, language string) {
	defer s.wg.Done()
	logger := logging.New(ctx)

	var (
		art    *domain.GeneratedArtifact
		genErr error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				genErr = fmt.Errorf("generation panicked: %v", r)
			}
		}()
		art, genErr = s.generator.Generate(ctx, prompt, framework, language)
	}()

	var (
		patch  domain.ProjectPatch
		reason string
	)
	switch {
	case genErr != nil:
		reason = genErr.Error()
		patch = domain.ProjectPatch{Status: domain.StatusPtr(domain.StatusError)}
	case art.IsEmpty():
		reason = "generation returned no files"
		patch = domain.ProjectPatch{Status: domain.StatusPtr(domain.StatusError)}
	default:
		patch = domain.ProjectPatch{
			Status:    domain.StatusPtr(domain.StatusReady),
			Artifact:  art,
			Framework: domain.StringPtr(art.Framework),
			Language:  domain.StringPtr(art.Language),
		}
	}

	p, err := s.store.UpdateIfStatus(ctx, projectID, domain.StatusBuilding, patch)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.LogInfof("generate", "project_id=%s deleted before generation resolved", projectID)
		return
	case errors.Is(err, domain.ErrStatusConflict):
		logger.LogWarnf("generate", "project_id=%s already resolved: %v", projectID, err)
		return
	case err != nil:
		// the record stays building until the stale sweep picks it up
		logger.LogErrorf("generate", "project_id=%s write-back failed: %v", projectID, err)
		return
	}

	if reason != "" {
		logger.LogWarnf("generate", "project_id=%s owner_id=%s status=error reason=%q", projectID, ownerID, reason)
	} else {
		logger.LogInfof("generate", "project_id=%s owner_id=%s status=ready files=%d", projectID, ownerID, len(art.Files))
	}
	s.publish(ctx, events.NewStatusEvent(p, reason))
}

func (s *GenerationService) publish(ctx context.Context, ev events.StatusEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logging.New(ctx).LogWarnf("publish_status", "project_id=%s status=%s error=%v", ev.ProjectID, ev.Status, err)
	}
}
