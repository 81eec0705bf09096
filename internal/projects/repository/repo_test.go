package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
)

var projectRowColumns = []string{
	"id", "owner_id", "name", "description", "prompt", "framework", "language",
	"status", "artifact", "deploy_url", "is_public", "created_at", "updated_at",
}

func setupProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewProjectRepository(db), mock, db
}

func projectRow(id, status string, artifact any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(projectRowColumns).AddRow(
		id, "user-1", "Shop", "", "Build a shop with a cart", "react", "javascript",
		status, artifact, nil, false, now, now,
	)
}

func TestProjectRepository_Create(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("assigns an id and timestamps", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(
				sqlmock.AnyArg(), // id
				"user-1", "Shop", "", "Build a shop with a cart", "", "",
				"building",
				nil, // artifact
				"",  // deploy_url
				false,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

		p, err := repo.Create(ctx, &domain.Project{
			OwnerID: "user-1",
			Name:    "Shop",
			Prompt:  "Build a shop with a cart",
			Status:  domain.StatusBuilding,
		})
		require.NoError(t, err)
		assert.Regexp(t, `^mk-\d{5}-\d{4}$`, p.ID)
		assert.False(t, p.CreatedAt.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries on id collision", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

		p, err := repo.Create(ctx, &domain.Project{
			OwnerID: "user-1",
			Name:    "Shop",
			Status:  domain.StatusReady,
			Artifact: &domain.GeneratedArtifact{
				Files: map[string]string{"index.html": "<html></html>"},
			},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "<html></html>", p.Artifact.Files["index.html"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		_, err := repo.Create(ctx, &domain.Project{Status: domain.StatusDraft})
		assert.Error(t, err)
	})
}

func TestProjectRepository_Get(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("decodes artifact", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM projects WHERE id = \$1`).
			WithArgs("mk-1").
			WillReturnRows(projectRow("mk-1", "ready", []byte(`{"files":{"a.js":"x"},"framework":"react","language":"javascript","deployment_instructions":"npm start"}`)))

		p, err := repo.Get(ctx, "mk-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusReady, p.Status)
		require.NotNil(t, p.Artifact)
		assert.Equal(t, "x", p.Artifact.Files["a.js"])
		assert.Equal(t, "npm start", p.Artifact.DeploymentInstructions)
		assert.Empty(t, p.DeployURL)
	})

	t.Run("null artifact", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM projects`).
			WithArgs("mk-2").
			WillReturnRows(projectRow("mk-2", "building", nil))

		p, err := repo.Get(ctx, "mk-2")
		require.NoError(t, err)
		assert.Nil(t, p.Artifact)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM projects`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_ListByOwner(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM projects WHERE owner_id = \$1 ORDER BY updated_at DESC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(projectRowColumns).
			AddRow("mk-2", "user-1", "B", "", "p", "react", "javascript", "draft", nil, nil, false, now, now).
			AddRow("mk-1", "user-1", "A", "", "p", "react", "javascript", "deployed", []byte(`{"files":{"a":"b"}}`), "https://a.example", true, now, now))

	list, err := repo.ListByOwner(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "mk-2", list[0].ID)
	assert.Equal(t, "https://a.example", list[1].DeployURL)
	assert.True(t, list[1].IsPublic)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Update(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("passes artifact as json text", func(t *testing.T) {
		art := &domain.GeneratedArtifact{Files: map[string]string{"a.js": "x"}}
		mock.ExpectQuery(`UPDATE projects SET`).
			WithArgs("mk-1", nil, nil, nil, nil, "ready",
				`{"files":{"a.js":"x"},"framework":"","language":"","deployment_instructions":""}`,
				nil, nil).
			WillReturnRows(projectRow("mk-1", "ready", []byte(`{"files":{"a.js":"x"}}`)))

		p, err := repo.Update(ctx, "mk-1", domain.ProjectPatch{
			Status:   domain.StatusPtr(domain.StatusReady),
			Artifact: art,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusReady, p.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE projects SET`).WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(ctx, "missing", domain.ProjectPatch{Name: domain.StringPtr("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_UpdateIfStatus(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()
	ctx := context.Background()
	patch := domain.ProjectPatch{Status: domain.StatusPtr(domain.StatusError)}

	t.Run("applies while status matches", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE projects SET (.+) AND status = \$10`).
			WithArgs("mk-1", nil, nil, nil, nil, "error", nil, nil, nil, "building").
			WillReturnRows(projectRow("mk-1", "error", nil))

		p, err := repo.UpdateIfStatus(ctx, "mk-1", domain.StatusBuilding, patch)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusError, p.Status)
	})

	t.Run("conflict when status moved", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE projects SET`).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT status FROM projects`).
			WithArgs("mk-1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("error"))

		_, err := repo.UpdateIfStatus(ctx, "mk-1", domain.StatusBuilding, patch)
		assert.ErrorIs(t, err, domain.ErrStatusConflict)
	})

	t.Run("not found when deleted", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE projects SET`).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT status FROM projects`).
			WithArgs("mk-1").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.UpdateIfStatus(ctx, "mk-1", domain.StatusBuilding, patch)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Delete(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM projects WHERE id = \$1`).
		WithArgs("mk-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM projects`).
		WithArgs("mk-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "mk-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "mk-1"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_MarkStale(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	cutoff := time.Now().Add(-10 * time.Minute)
	mock.ExpectQuery(`UPDATE projects\s+SET status = 'error'`).
		WithArgs(cutoff).
		WillReturnRows(projectRow("mk-9", "error", nil))

	stale, err := repo.MarkStale(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "mk-9", stale[0].ID)
	assert.Equal(t, domain.StatusError, stale[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
