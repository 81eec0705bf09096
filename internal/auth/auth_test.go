package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/markode-co/MarkodeAITool/internal/users"
)

type fakeEnsurer struct {
	got users.UpsertUser
	err error
}

func (f *fakeEnsurer) EnsureUser(_ context.Context, u users.UpsertUser) (string, error) {
	f.got = u
	return "db-" + u.FirebaseUID, f.err
}

func serve(r *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDevUserWithUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ensurer := &fakeEnsurer{}

	r := gin.New()
	r.Use(DevUser(), WithUser(ensurer))
	r.GET("/who", func(c *gin.Context) {
		c.String(http.StatusOK, UserFirebaseUID(c))
	})

	w := serve(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "demo-user", w.Body.String())
	assert.Equal(t, "demo-user", ensurer.got.FirebaseUID)

	w = serve(r, map[string]string{
		"X-User-Id":    "u1",
		"X-User-Email": "u1@example.com",
		"X-User-Name":  "Ada",
		"X-User-Photo": "https://img.example/ada.png",
	})
	assert.Equal(t, "u1", w.Body.String())
	assert.Equal(t, users.UpsertUser{
		FirebaseUID: "u1",
		Email:       "u1@example.com",
		DisplayName: "Ada",
		PhotoURL:    "https://img.example/ada.png",
	}, ensurer.got)
}

func TestWithUser_IgnoresProfileHeadersWithoutDevUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ensurer := &fakeEnsurer{}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(CtxFirebaseUID, "fb-1")
		c.Next()
	}, WithUser(ensurer))
	r.GET("/who", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, map[string]string{"X-User-Name": "Mallory", "X-User-Photo": "https://evil.example/x.png"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ensurer.got.DisplayName)
	assert.Empty(t, ensurer.got.PhotoURL)
}

func TestWithUser_Errors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(WithUser(&fakeEnsurer{}))
	r.GET("/who", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, nil).Code)

	r = gin.New()
	r.Use(DevUser(), WithUser(&fakeEnsurer{err: errors.New("db down")}))
	r.GET("/who", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := serve(r, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}
