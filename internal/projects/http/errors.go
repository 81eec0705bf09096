package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markode-co/MarkodeAITool/internal/codegen"
	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
	tpldomain "github.com/markode-co/MarkodeAITool/internal/templates/domain"
)

// writeError maps service errors onto HTTP statuses using the {"ok": false} envelope.
func writeError(c *gin.Context, operation string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": verr.Error(), "field": verr.Field})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, codegen.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, tpldomain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "template not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "access denied"})
	case errors.Is(err, domain.ErrNoArtifact), errors.Is(err, domain.ErrNotDeployable), errors.Is(err, domain.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, codegen.ErrGenerationFailure), errors.Is(err, codegen.ErrEmptyResult):
		logging.New(c.Request.Context()).LogError(operation, err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "code generation failed"})
	default:
		logging.New(c.Request.Context()).LogError(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
}
