package domain

import "errors"

var (
	ErrNotFound       = errors.New("project not found")
	ErrForbidden      = errors.New("access denied")
	ErrValidation     = errors.New("validation failed")
	ErrStatusConflict = errors.New("project status changed")
	ErrNoArtifact     = errors.New("project has no generated files")
	ErrNotDeployable  = errors.New("project is not ready for deployment")
)
