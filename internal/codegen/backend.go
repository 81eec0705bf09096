package codegen

import "context"

// Request is a single completion request sent to a text-generation backend.
type Request struct {
	System string
	Prompt string
	// JSON asks the backend for a JSON object response.
	JSON bool
}

// Backend issues one completion call to an external text-generation service.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}
