package service

import (
	"context"

	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
)

// ImprovementService rewrites single files of an existing project on request.
type ImprovementService struct {
	store    ProjectStore
	improver Improver
}

func NewImprovementService(store ProjectStore, improver Improver) *ImprovementService {
	return &ImprovementService{store: store, improver: improver}
}

// ImproveFile returns the revised content for filename. Existence and ownership
// are checked before the backend is called. The result is not persisted.
func (s *ImprovementService) ImproveFile(ctx context.Context, projectID, requesterID, filename, currentCode, instructions string) (string, error) {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return "", err
	}
	if !p.OwnedBy(requesterID) {
		return "", domain.ErrForbidden
	}
	if err := domain.ValidateFilename(filename); err != nil {
		return "", err
	}
	if err := domain.ValidateInstructions(instructions); err != nil {
		return "", err
	}

	improved, err := s.improver.Improve(ctx, currentCode, instructions)
	if err != nil {
		logging.New(ctx).LogErrorf("improve_file", "project_id=%s filename=%s error=%v", projectID, filename, err)
		return "", err
	}

	logging.New(ctx).LogInfof("improve_file", "project_id=%s filename=%s bytes=%d", projectID, filename, len(improved))
	return improved, nil
}
