package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markode-co/MarkodeAITool/internal/templates/domain"
)

func setupTemplateRepo(t *testing.T) (*TemplateRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo, err := NewTemplateRepository(db, 8)
	require.NoError(t, err)
	return repo, mock, db
}

func TestTemplateRepository_Get(t *testing.T) {
	repo, mock, db := setupTemplateRepo(t)
	defer db.Close()
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM templates WHERE id = \$1`).
		WithArgs("landing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "category", "framework", "language", "files", "image_url", "is_public", "created_at",
		}).AddRow("landing", "Landing page", "One-page site", "marketing", "react", "javascript",
			[]byte(`{"index.html":"<html></html>","src/app.js":"x"}`), nil, true, time.Now()))

	tpl, err := repo.Get(ctx, "landing")
	require.NoError(t, err)
	assert.Equal(t, "Landing page", tpl.Name)
	assert.Len(t, tpl.Files, 2)
	assert.Empty(t, tpl.ImageURL)

	// second read is served from cache and is an independent copy
	tpl.Files["index.html"] = "mutated"
	again, err := repo.Get(ctx, "landing")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", again.Files["index.html"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepository_Get_NotFound(t *testing.T) {
	repo, mock, db := setupTemplateRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM templates`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepository_ListPublic(t *testing.T) {
	repo, mock, db := setupTemplateRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM templates WHERE is_public = true`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "category", "framework", "language", "image_url", "file_count", "created_at",
		}).
			AddRow("blog", "Blog", "", "content", "vue", "typescript", "https://img.example/blog.png", 4, now).
			AddRow("landing", "Landing page", "", "marketing", "react", "javascript", nil, 2, now))

	list, err := repo.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "https://img.example/blog.png", list[0].ImageURL)
	assert.Equal(t, 2, list[1].FileCount)
	require.NoError(t, mock.ExpectationsWereMet())
}
