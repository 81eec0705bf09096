package domain

import "time"

// Status is the lifecycle state of a project.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusBuilding Status = "building"
	StatusReady    Status = "ready"
	StatusDeployed Status = "deployed"
	StatusError    Status = "error"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusBuilding, StatusReady, StatusDeployed, StatusError:
		return true
	}
	return false
}

// HasArtifact reports whether a project in status s must carry a non-empty artifact.
func (s Status) HasArtifact() bool {
	return s == StatusReady || s == StatusDeployed
}

// Project represents a single generated project owned by a user.
// It is intentionally storage-agnostic and used across repository and HTTP layers.
type Project struct {
	ID          string             `json:"id"`
	OwnerID     string             `json:"owner_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Prompt      string             `json:"prompt"`
	Framework   string             `json:"framework"`
	Language    string             `json:"language"`
	Status      Status             `json:"status"`
	Artifact    *GeneratedArtifact `json:"artifact,omitempty"`
	DeployURL   string             `json:"deploy_url,omitempty"`
	IsPublic    bool               `json:"is_public"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// OwnedBy reports whether userID owns the project.
func (p *Project) OwnedBy(userID string) bool {
	return p != nil && userID != "" && p.OwnerID == userID
}

// ProjectPatch carries a partial update; nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
	Framework   *string
	Language    *string
	Status      *Status
	Artifact    *GeneratedArtifact
	DeployURL   *string
	IsPublic    *bool
}

// Apply merges the patch into p. It does not touch timestamps.
func (pt ProjectPatch) Apply(p *Project) {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Framework != nil {
		p.Framework = *pt.Framework
	}
	if pt.Language != nil {
		p.Language = *pt.Language
	}
	if pt.Status != nil {
		p.Status = *pt.Status
	}
	if pt.Artifact != nil {
		p.Artifact = pt.Artifact.Clone()
	}
	if pt.DeployURL != nil {
		p.DeployURL = *pt.DeployURL
	}
	if pt.IsPublic != nil {
		p.IsPublic = *pt.IsPublic
	}
}

// StatusPtr is a small helper for building patches.
func StatusPtr(s Status) *Status { return &s }

// StringPtr is a small helper for building patches.
func StringPtr(s string) *string { return &s }
