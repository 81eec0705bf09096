package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
)

// MemoryRepository is an in-process project store with the same contract as
// ProjectRepository. The service, handler and router tests run against it.
// Every read and write copies the record so callers never share state with the store.
type MemoryRepository struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project

	// Now is the clock used for timestamps.
	Now func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		projects: make(map[string]*domain.Project),
		Now:      time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	if p.OwnerID == "" {
		return nil, fmt.Errorf("owner id required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", p.Status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := clone(p)
	if out.ID == "" {
		for i := 0; ; i++ {
			id, err := domain.NewProjectID()
			if err != nil {
				return nil, err
			}
			if _, taken := r.projects[id]; !taken {
				out.ID = id
				break
			}
			if i == 4 {
				return nil, fmt.Errorf("failed to generate unique project id")
			}
		}
	} else if _, taken := r.projects[out.ID]; taken {
		return nil, fmt.Errorf("project %s already exists", out.ID)
	}

	now := r.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now
	r.projects[out.ID] = out
	return clone(out), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Project, 0)
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			out = append(out, *clone(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.applyLocked(p, patch), nil
}

func (r *MemoryRepository) UpdateIfStatus(_ context.Context, id string, expected domain.Status, patch domain.ProjectPatch) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Status != expected {
		return nil, fmt.Errorf("%w: expected %s, found %s", domain.ErrStatusConflict, expected, p.Status)
	}
	return r.applyLocked(p, patch), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *MemoryRepository) MarkStale(_ context.Context, cutoff time.Time) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Project
	failed := domain.StatusError
	for _, p := range r.projects {
		if p.Status == domain.StatusBuilding && p.UpdatedAt.Before(cutoff) {
			out = append(out, *r.applyLocked(p, domain.ProjectPatch{Status: &failed}))
		}
	}
	return out, nil
}

func (r *MemoryRepository) applyLocked(p *domain.Project, patch domain.ProjectPatch) *domain.Project {
	patch.Apply(p)
	p.UpdatedAt = r.Now().UTC()
	return clone(p)
}

func clone(p *domain.Project) *domain.Project {
	out := *p
	out.Artifact = p.Artifact.Clone()
	return &out
}
