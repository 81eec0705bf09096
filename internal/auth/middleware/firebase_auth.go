package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/markode-co/MarkodeAITool/internal/auth"
	"github.com/markode-co/MarkodeAITool/internal/logging"
)

// TokenVerifier is satisfied by *fbauth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseAuthMiddleware validates Firebase ID tokens and extracts user info
func FirebaseAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			return
		}

		decoded, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			logging.New(c.Request.Context()).LogWarnf("verify_token", "error=%v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		c.Set(auth.CtxFirebaseUID, decoded.UID)
		setClaim(c, decoded, "email", auth.CtxEmail)
		setClaim(c, decoded, "name", auth.CtxDisplayName)
		setClaim(c, decoded, "picture", auth.CtxPhotoURL)

		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header.
// EventSource cannot set headers, so SSE clients may pass ?access_token=.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return strings.TrimSpace(c.Query("access_token"))
}

func setClaim(c *gin.Context, token *fbauth.Token, claim, key string) {
	if v, ok := token.Claims[claim].(string); ok && v != "" {
		c.Set(key, v)
	}
}
