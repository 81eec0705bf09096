package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markode-co/MarkodeAITool/internal/auth"
	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/users"
)

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	user, err := h.users.GetByFirebaseUID(c.Request.Context(), firebaseUID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
			return
		}
		logging.New(c.Request.Context()).LogError("get_profile", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to get user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}
