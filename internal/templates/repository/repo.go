package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/markode-co/MarkodeAITool/internal/templates/domain"
)

const defaultCacheSize = 256

// TemplateRepository reads templates from postgres. Rows are immutable, so
// full templates are cached by id.
type TemplateRepository struct {
	db    *sql.DB
	cache *lru.Cache[string, *domain.Template]
}

func NewTemplateRepository(db *sql.DB, cacheSize int) (*TemplateRepository, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, *domain.Template](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create template cache: %w", err)
	}
	return &TemplateRepository{db: db, cache: cache}, nil
}

// Get returns the template with the given id, including its files.
func (r *TemplateRepository) Get(ctx context.Context, id string) (*domain.Template, error) {
	if t, ok := r.cache.Get(id); ok {
		return cloneTemplate(t), nil
	}

	const q = `
SELECT id, name, description, category, framework, language, files, image_url, is_public, created_at
FROM templates
WHERE id = $1;
`
	var (
		t        domain.Template
		files    []byte
		imageURL sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Category, &t.Framework, &t.Language,
		&files, &imageURL, &t.IsPublic, &t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	t.ImageURL = imageURL.String
	t.Files = map[string]string{}
	if len(files) > 0 {
		if err := json.Unmarshal(files, &t.Files); err != nil {
			return nil, fmt.Errorf("failed to unmarshal files for template %s: %w", t.ID, err)
		}
	}

	r.cache.Add(t.ID, &t)
	return cloneTemplate(&t), nil
}

// ListPublic returns summaries of all public templates grouped by category.
func (r *TemplateRepository) ListPublic(ctx context.Context) ([]domain.Summary, error) {
	const q = `
SELECT id, name, description, category, framework, language, image_url,
       COALESCE((SELECT count(*) FROM jsonb_object_keys(files)), 0) AS file_count,
       created_at
FROM templates
WHERE is_public = true
ORDER BY category, name;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Summary, 0, 16)
	for rows.Next() {
		var (
			s        domain.Summary
			imageURL sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.Framework, &s.Language,
			&imageURL, &s.FileCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.ImageURL = imageURL.String
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func cloneTemplate(t *domain.Template) *domain.Template {
	out := *t
	out.Files = make(map[string]string, len(t.Files))
	for k, v := range t.Files {
		out.Files[k] = v
	}
	return &out
}
