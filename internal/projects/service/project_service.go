package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
	"github.com/markode-co/MarkodeAITool/internal/projects/events"
)

// ProjectService handles the foreground project operations: reads, metadata
// edits, file saves, deletion, deployment marking and template instantiation.
type ProjectService struct {
	store     ProjectStore
	templates TemplateSource
	publisher StatusPublisher
}

// NewProjectService creates a new project service
func NewProjectService(store ProjectStore, templates TemplateSource, publisher StatusPublisher) *ProjectService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &ProjectService{
		store:     store,
		templates: templates,
		publisher: publisher,
	}
}

// UpdateInput carries the user-editable metadata; nil fields are unchanged.
type UpdateInput struct {
	Name        *string
	Description *string
	Framework   *string
	Language    *string
	IsPublic    *bool
}

// Get returns a project owned by requesterID.
func (s *ProjectService) Get(ctx context.Context, requesterID, id string) (*domain.Project, error) {
	return s.owned(ctx, requesterID, id)
}

// List returns all projects for a user, most recently updated first.
func (s *ProjectService) List(ctx context.Context, ownerID string) ([]domain.Project, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Update edits project metadata. Status and artifact are not writable here.
func (s *ProjectService) Update(ctx context.Context, requesterID, id string, in UpdateInput) (*domain.Project, error) {
	if _, err := s.owned(ctx, requesterID, id); err != nil {
		return nil, err
	}

	patch := domain.ProjectPatch{
		Description: in.Description,
		IsPublic:    in.IsPublic,
	}
	if in.Name != nil {
		if err := domain.ValidateName(*in.Name); err != nil {
			return nil, err
		}
		patch.Name = domain.StringPtr(strings.TrimSpace(*in.Name))
	}
	if in.Framework != nil {
		patch.Framework = domain.StringPtr(strings.TrimSpace(*in.Framework))
	}
	if in.Language != nil {
		patch.Language = domain.StringPtr(strings.TrimSpace(*in.Language))
	}
	return s.store.Update(ctx, id, patch)
}

// SaveFile writes one file into the project's artifact, replacing any existing
// content under the same key. Concurrent saves are last-writer-wins.
func (s *ProjectService) SaveFile(ctx context.Context, requesterID, id, filename, content string) (*domain.Project, error) {
	p, err := s.owned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateFilename(filename); err != nil {
		return nil, err
	}
	if p.Artifact == nil {
		return nil, domain.ErrNoArtifact
	}

	updated, err := s.store.Update(ctx, id, domain.ProjectPatch{Artifact: p.Artifact.WithFile(filename, content)})
	if err != nil {
		return nil, err
	}
	logging.New(ctx).LogInfof("save_file", "project_id=%s filename=%s bytes=%d", id, filename, len(content))
	return updated, nil
}

// Delete removes a project regardless of status. An in-flight generation for
// it resolves silently.
func (s *ProjectService) Delete(ctx context.Context, requesterID, id string) error {
	if _, err := s.owned(ctx, requesterID, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logging.New(ctx).LogInfof("delete_project", "project_id=%s", id)
	return nil
}

// MarkDeployed records a deployment URL. Only ready or deployed projects qualify.
func (s *ProjectService) MarkDeployed(ctx context.Context, requesterID, id, deployURL string) (*domain.Project, error) {
	p, err := s.owned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.HasArtifact() || p.Artifact.IsEmpty() {
		return nil, fmt.Errorf("%w: status is %s", domain.ErrNotDeployable, p.Status)
	}

	u, err := url.Parse(strings.TrimSpace(deployURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &domain.ValidationError{Field: "deploy_url", Message: "must be an absolute http(s) URL"}
	}

	updated, err := s.store.UpdateIfStatus(ctx, id, p.Status, domain.ProjectPatch{
		Status:    domain.StatusPtr(domain.StatusDeployed),
		DeployURL: domain.StringPtr(u.String()),
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewStatusEvent(updated, ""))
	return updated, nil
}

// CreateFromTemplate instantiates a template as a new project without
// generation. The project is ready when the template has files, draft otherwise.
func (s *ProjectService) CreateFromTemplate(ctx context.Context, ownerID, templateID, name, description string) (*domain.Project, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, &domain.ValidationError{Field: "owner_id", Message: "is required"}
	}
	tpl, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		name = tpl.Name
	}
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		description = tpl.Description
	}

	p := &domain.Project{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Framework:   tpl.Framework,
		Language:    tpl.Language,
		Status:      domain.StatusDraft,
	}
	if files := s.templateFiles(ctx, tpl.ID, tpl.Files); len(files) > 0 {
		art := &domain.GeneratedArtifact{
			Files:     files,
			Framework: tpl.Framework,
			Language:  tpl.Language,
		}
		art.ApplyDefaults()
		p.Artifact = art
		p.Status = domain.StatusReady
	}

	created, err := s.store.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	logging.New(ctx).LogInfof("create_from_template", "project_id=%s template_id=%s status=%s", created.ID, templateID, created.Status)
	return created, nil
}

// templateFiles copies the template's files, dropping keys that are not safe
// relative paths.
func (s *ProjectService) templateFiles(ctx context.Context, templateID string, files map[string]string) map[string]string {
	out := make(map[string]string, len(files))
	for path, content := range files {
		if err := domain.ValidateFilename(path); err != nil {
			logging.New(ctx).LogWarnf("create_from_template", "template_id=%s skipping file %q: %v", templateID, path, err)
			continue
		}
		out[path] = content
	}
	return out
}

func (s *ProjectService) owned(ctx context.Context, requesterID, id string) (*domain.Project, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(requesterID) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *ProjectService) publish(ctx context.Context, ev events.StatusEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logging.New(ctx).LogWarnf("publish_status", "project_id=%s status=%s error=%v", ev.ProjectID, ev.Status, err)
	}
}
