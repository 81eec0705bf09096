package codegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
)

// ParseArtifact decodes a model response into an artifact. The response must be a JSON
// object; fields that are missing or have the wrong type fall back to defaults, and file
// entries with non-string content or unsafe paths are dropped.
func ParseArtifact(raw string) (*domain.GeneratedArtifact, error) {
	body := strings.TrimSpace(SanitizeCode(raw))
	if body == "" {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailure)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object: %w", ErrGenerationFailure, err)
	}

	art := &domain.GeneratedArtifact{
		Files:                  parseFiles(fields["files"]),
		Framework:              stringField(fields, "framework"),
		Language:               stringField(fields, "language"),
		DeploymentInstructions: stringField(fields, "deploymentInstructions", "deployment_instructions"),
	}
	art.ApplyDefaults()
	return art, nil
}

func parseFiles(raw json.RawMessage) map[string]string {
	out := map[string]string{}
	if len(raw) == 0 {
		return out
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return out
	}
	for path, v := range entries {
		var content string
		if err := json.Unmarshal(v, &content); err != nil {
			continue
		}
		path = normalizePath(path)
		if domain.ValidateFilename(path) != nil {
			continue
		}
		out[path] = content
	}
	return out
}

func normalizePath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.TrimLeft(p, "/")
}

func stringField(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		raw, ok := fields[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
