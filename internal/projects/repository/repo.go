package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
)

const projectColumns = `id, owner_id, name, description, prompt, framework, language, status, artifact, deploy_url, is_public, created_at, updated_at`

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project. An empty ID is assigned a fresh public id; timestamps come from the database.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if p.OwnerID == "" {
		return nil, fmt.Errorf("owner id required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", p.Status)
	}

	artifact, err := encodeArtifact(p.Artifact)
	if err != nil {
		return nil, err
	}

	generated := p.ID == ""
	for i := 0; i < 5; i++ {
		out := *p
		if generated {
			out.ID, err = domain.NewProjectID()
			if err != nil {
				return nil, err
			}
		}

		const q = `
INSERT INTO projects (id, owner_id, name, description, prompt, framework, language, status, artifact, deploy_url, is_public)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, NULLIF($10, ''), $11)
RETURNING created_at, updated_at;
`
		err = r.db.QueryRowContext(ctx, q,
			out.ID, out.OwnerID, out.Name, out.Description, out.Prompt,
			out.Framework, out.Language, string(out.Status), artifact, out.DeployURL, out.IsPublic,
		).Scan(&out.CreatedAt, &out.UpdatedAt)

		if err == nil {
			out.Artifact = p.Artifact.Clone()
			return &out, nil
		}

		// unique violation on id → retry
		var pgErr *pq.Error
		if generated && errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// Get returns the project with the given id.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1;`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// ListByOwner returns the owner's projects, most recently updated first.
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY updated_at DESC;`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update merges patch into the project in a single statement and refreshes updated_at.
func (r *ProjectRepository) Update(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	q, args, err := updateQuery(id, patch, "")
	if err != nil {
		return nil, err
	}
	p, err := scanProject(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

// UpdateIfStatus applies patch only while the project is still in status expected.
// It returns domain.ErrNotFound when the project is gone and domain.ErrStatusConflict
// when another writer already moved it.
func (r *ProjectRepository) UpdateIfStatus(ctx context.Context, id string, expected domain.Status, patch domain.ProjectPatch) (*domain.Project, error) {
	q, args, err := updateQuery(id, patch, string(expected))
	if err != nil {
		return nil, err
	}
	p, err := scanProject(r.db.QueryRowContext(ctx, q, args...))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	var current string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM projects WHERE id = $1;`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read project status: %w", err)
	}
	return nil, fmt.Errorf("%w: expected %s, found %s", domain.ErrStatusConflict, expected, current)
}

// Delete removes the project.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkStale moves projects stuck in building since before cutoff to error and returns them.
func (r *ProjectRepository) MarkStale(ctx context.Context, cutoff time.Time) ([]domain.Project, error) {
	q := `
UPDATE projects
SET status = 'error', updated_at = now()
WHERE status = 'building' AND updated_at < $1
RETURNING ` + projectColumns + `;`

	rows, err := r.db.QueryContext(ctx, q, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to mark stale projects: %w", err)
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func updateQuery(id string, patch domain.ProjectPatch, expected string) (string, []any, error) {
	artifact, err := encodeArtifact(patch.Artifact)
	if err != nil {
		return "", nil, err
	}
	var status any
	if patch.Status != nil {
		status = string(*patch.Status)
	}

	args := []any{
		id,
		optString(patch.Name),
		optString(patch.Description),
		optString(patch.Framework),
		optString(patch.Language),
		status,
		artifact,
		optString(patch.DeployURL),
		optBool(patch.IsPublic),
	}

	var sb strings.Builder
	sb.WriteString(`
UPDATE projects SET
  name = COALESCE($2, name),
  description = COALESCE($3, description),
  framework = COALESCE($4, framework),
  language = COALESCE($5, language),
  status = COALESCE($6, status),
  artifact = COALESCE($7::jsonb, artifact),
  deploy_url = COALESCE($8, deploy_url),
  is_public = COALESCE($9, is_public),
  updated_at = now()
WHERE id = $1`)
	if expected != "" {
		sb.WriteString(` AND status = $10`)
		args = append(args, expected)
	}
	sb.WriteString("\nRETURNING " + projectColumns + ";")
	return sb.String(), args, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p         domain.Project
		status    string
		artifact  []byte
		deployURL sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Prompt, &p.Framework, &p.Language,
		&status, &artifact, &deployURL, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = domain.Status(status)
	p.DeployURL = deployURL.String
	if len(artifact) > 0 {
		var a domain.GeneratedArtifact
		if err := json.Unmarshal(artifact, &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal artifact for project %s: %w", p.ID, err)
		}
		p.Artifact = &a
	}
	return &p, nil
}

// encodeArtifact returns the JSON text for a jsonb parameter, or nil for SQL NULL.
func encodeArtifact(a *domain.GeneratedArtifact) (any, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal artifact: %w", err)
	}
	return string(b), nil
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
