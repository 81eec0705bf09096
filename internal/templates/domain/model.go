package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("template not found")

// Template is a curated starter project. Templates are immutable once published.
type Template struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Framework   string            `json:"framework"`
	Language    string            `json:"language"`
	Files       map[string]string `json:"files"`
	ImageURL    string            `json:"image_url,omitempty"`
	IsPublic    bool              `json:"is_public"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Summary is the listing view of a template without file contents.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Framework   string    `json:"framework"`
	Language    string    `json:"language"`
	ImageURL    string    `json:"image_url,omitempty"`
	FileCount   int       `json:"file_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *Template) Summary() Summary {
	return Summary{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Framework:   t.Framework,
		Language:    t.Language,
		ImageURL:    t.ImageURL,
		FileCount:   len(t.Files),
		CreatedAt:   t.CreatedAt,
	}
}
