package domain

const (
	DefaultFramework              = "react"
	DefaultLanguage               = "javascript"
	DefaultDeploymentInstructions = "No deployment instructions provided"
)

// GeneratedArtifact is the generated source tree of a project.
// Files maps a forward-slash relative path to the full file content; directories
// exist only as key prefixes.
type GeneratedArtifact struct {
	Files                  map[string]string `json:"files"`
	Framework              string            `json:"framework"`
	Language               string            `json:"language"`
	DeploymentInstructions string            `json:"deployment_instructions"`
}

// IsEmpty reports whether the artifact carries no files.
func (a *GeneratedArtifact) IsEmpty() bool {
	return a == nil || len(a.Files) == 0
}

// Clone returns a deep copy so callers never share the files map.
func (a *GeneratedArtifact) Clone() *GeneratedArtifact {
	if a == nil {
		return nil
	}
	out := *a
	out.Files = make(map[string]string, len(a.Files))
	for k, v := range a.Files {
		out.Files[k] = v
	}
	return &out
}

// WithFile returns a copy of the artifact with filename set to content.
// Existing keys are replaced, every other key is kept as-is.
func (a *GeneratedArtifact) WithFile(filename, content string) *GeneratedArtifact {
	out := a.Clone()
	if out == nil {
		out = &GeneratedArtifact{}
	}
	if out.Files == nil {
		out.Files = make(map[string]string, 1)
	}
	out.Files[filename] = content
	return out
}

// ApplyDefaults fills framework, language and deployment instructions when missing.
func (a *GeneratedArtifact) ApplyDefaults() {
	if a.Files == nil {
		a.Files = map[string]string{}
	}
	if a.Framework == "" {
		a.Framework = DefaultFramework
	}
	if a.Language == "" {
		a.Language = DefaultLanguage
	}
	if a.DeploymentInstructions == "" {
		a.DeploymentInstructions = DefaultDeploymentInstructions
	}
}
