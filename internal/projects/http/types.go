package http

import (
	"context"
	"time"

	"github.com/markode-co/MarkodeAITool/internal/projects/events"
	"github.com/markode-co/MarkodeAITool/internal/projects/service"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultKeepAlive    = 15 * time.Second
)

// EventSource is satisfied by events.RedisBus.
type EventSource interface {
	Subscribe(ctx context.Context, projectID string) (<-chan events.StatusEvent, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	generation  *service.GenerationService
	improvement *service.ImprovementService
	projects    *service.ProjectService
	events      EventSource

	pollInterval time.Duration
	keepAlive    time.Duration
}

// New creates the handler. events may be nil, in which case status streams
// rely on polling alone.
func New(generation *service.GenerationService, improvement *service.ImprovementService, projects *service.ProjectService, events EventSource) *Handler {
	return &Handler{
		generation:   generation,
		improvement:  improvement,
		projects:     projects,
		events:       events,
		pollInterval: defaultPollInterval,
		keepAlive:    defaultKeepAlive,
	}
}

type createReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
	Framework   string `json:"framework"`
	Language    string `json:"language"`
}

type createFromTemplateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Framework   *string `json:"framework"`
	Language    *string `json:"language"`
	IsPublic    *bool   `json:"is_public"`
}

type saveFileReq struct {
	Filename string  `json:"filename"`
	Content  *string `json:"content"`
}

type improveReq struct {
	Filename     string `json:"filename"`
	Code         string `json:"code"`
	Instructions string `json:"instructions"`
	// Improvements is accepted as an alias of Instructions.
	Improvements string `json:"improvements"`
}

type deployReq struct {
	DeployURL string `json:"deploy_url"`
}
