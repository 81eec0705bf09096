package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DevUser sets a firebase uid in context without enforcing auth.
// - Reads X-User-Id, X-User-Email, X-User-Name and X-User-Photo; a missing id falls back to "demo-user".
// - Use this ONLY for development/testing.
func DevUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = "demo-user"
		}

		c.Set(CtxFirebaseUID, uid)
		setHeader(c, CtxEmail, "X-User-Email")
		setHeader(c, CtxDisplayName, "X-User-Name")
		setHeader(c, CtxPhotoURL, "X-User-Photo")

		c.Next()
	}
}

func setHeader(c *gin.Context, key, header string) {
	if v := strings.TrimSpace(c.GetHeader(header)); v != "" {
		c.Set(key, v)
	}
}
