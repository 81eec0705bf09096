package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/users"
)

// UserEnsurer is satisfied by users.Repo.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, u users.UpsertUser) (string, error)
}

// WithUser makes sure an authenticated principal has a local users row. Profile
// fields come from the context, never from request headers directly. It must run
// after the Firebase middleware or DevUser.
func WithUser(ensurer UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuid := UserFirebaseUID(c)
		if fuid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			return
		}

		uid, err := ensurer.EnsureUser(c.Request.Context(), users.UpsertUser{
			FirebaseUID: fuid,
			Email:       c.GetString(CtxEmail),
			DisplayName: c.GetString(CtxDisplayName),
			PhotoURL:    c.GetString(CtxPhotoURL),
		})
		if err != nil {
			logging.New(c.Request.Context()).LogError("ensure_user", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "ensure user failed"})
			return
		}

		logging.New(c.Request.Context()).LogDebugf("ensure_user", "firebase_uid=%s user_id=%s", fuid, uid)
		c.Next()
	}
}
