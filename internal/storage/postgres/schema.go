package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS users (
  id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  firebase_uid TEXT NOT NULL UNIQUE,
  email        TEXT,
  display_name TEXT,
  photo_url    TEXT,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS projects (
  id          TEXT PRIMARY KEY,
  owner_id    TEXT NOT NULL,
  name        TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  prompt      TEXT NOT NULL DEFAULT '',
  framework   TEXT NOT NULL DEFAULT '',
  language    TEXT NOT NULL DEFAULT 'javascript',
  status      TEXT NOT NULL DEFAULT 'draft'
              CHECK (status IN ('draft', 'building', 'ready', 'deployed', 'error')),
  artifact    JSONB,
  deploy_url  TEXT,
  is_public   BOOLEAN NOT NULL DEFAULT FALSE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_projects_owner_updated ON projects (owner_id, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_projects_building ON projects (updated_at) WHERE status = 'building';

CREATE TABLE IF NOT EXISTS templates (
  id          TEXT PRIMARY KEY,
  name        TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category    TEXT NOT NULL,
  framework   TEXT NOT NULL,
  language    TEXT NOT NULL DEFAULT 'javascript',
  files       JSONB NOT NULL DEFAULT '{}'::jsonb,
  image_url   TEXT,
  is_public   BOOLEAN NOT NULL DEFAULT TRUE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the tables used by the service when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
