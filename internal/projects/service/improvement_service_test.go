package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markode-co/MarkodeAITool/internal/codegen"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
	"github.com/markode-co/MarkodeAITool/internal/projects/repository"
)

func seedReadyProject(t *testing.T, store *repository.MemoryRepository, owner string) *domain.Project {
	t.Helper()
	p, err := store.Create(context.Background(), &domain.Project{
		OwnerID: owner,
		Name:    "Shop",
		Status:  domain.StatusReady,
		Artifact: &domain.GeneratedArtifact{
			Files: map[string]string{"src/app.js": "old", "readme.md": "doc"},
		},
	})
	require.NoError(t, err)
	return p
}

func TestImproveFile(t *testing.T) {
	store := repository.NewMemoryRepository()
	p := seedReadyProject(t, store, "u1")
	spy := &spyImprover{out: "const total = 1;"}
	svc := NewImprovementService(store, spy)

	out, err := svc.ImproveFile(context.Background(), p.ID, "u1", "src/app.js", "old", "make it better")
	require.NoError(t, err)
	assert.Equal(t, "const total = 1;", out)
	assert.Equal(t, int32(1), spy.calls.Load())

	got, _ := store.Get(context.Background(), p.ID)
	assert.Equal(t, "old", got.Artifact.Files["src/app.js"], "improvement is not persisted")
}

func TestImproveFile_ChecksBeforeBackend(t *testing.T) {
	store := repository.NewMemoryRepository()
	p := seedReadyProject(t, store, "u1")

	tests := []struct {
		name         string
		projectID    string
		requester    string
		filename     string
		instructions string
		want         error
	}{
		{name: "missing project", projectID: "missing", requester: "u1", filename: "a.js", instructions: "x", want: domain.ErrNotFound},
		{name: "not the owner", projectID: p.ID, requester: "u2", filename: "src/app.js", instructions: "x", want: domain.ErrForbidden},
		{name: "anonymous", projectID: p.ID, requester: "", filename: "src/app.js", instructions: "x", want: domain.ErrForbidden},
		{name: "absolute filename", projectID: p.ID, requester: "u1", filename: "/etc/passwd", instructions: "x", want: domain.ErrValidation},
		{name: "blank instructions", projectID: p.ID, requester: "u1", filename: "src/app.js", instructions: "  ", want: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyImprover{out: "never"}
			svc := NewImprovementService(store, spy)

			_, err := svc.ImproveFile(context.Background(), tt.projectID, tt.requester, tt.filename, "old", tt.instructions)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, spy.calls.Load(), "backend must not be called")
		})
	}
}

func TestImproveFile_PropagatesBackendFailure(t *testing.T) {
	store := repository.NewMemoryRepository()
	p := seedReadyProject(t, store, "u1")
	svc := NewImprovementService(store, &spyImprover{err: codegen.ErrEmptyResult})

	_, err := svc.ImproveFile(context.Background(), p.ID, "u1", "src/app.js", "old", "make it better")
	assert.ErrorIs(t, err, codegen.ErrEmptyResult)
}
