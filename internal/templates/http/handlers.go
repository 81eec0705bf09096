package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/templates/domain"
)

// Store is satisfied by repository.TemplateRepository.
type Store interface {
	Get(ctx context.Context, id string) (*domain.Template, error)
	ListPublic(ctx context.Context) ([]domain.Summary, error)
}

type Handler struct {
	store Store
}

func New(store Store) *Handler {
	return &Handler{store: store}
}

// Register attaches template routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.store.ListPublic(c.Request.Context())
	if err != nil {
		logging.New(c.Request.Context()).LogError("list_templates", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to list templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "templates": items})
}

func (h *Handler) get(c *gin.Context) {
	t, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "template not found"})
			return
		}
		logging.New(c.Request.Context()).LogError("get_template", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to get template"})
		return
	}
	if !t.IsPublic {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "template": t})
}
