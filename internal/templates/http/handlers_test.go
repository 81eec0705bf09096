package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/markode-co/MarkodeAITool/internal/templates/domain"
)

type fakeStore struct {
	templates map[string]*domain.Template
	listErr   error
}

func (f fakeStore) Get(_ context.Context, id string) (*domain.Template, error) {
	if t, ok := f.templates[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (f fakeStore) ListPublic(context.Context) ([]domain.Summary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Summary
	for _, t := range f.templates {
		if t.IsPublic {
			out = append(out, t.Summary())
		}
	}
	return out, nil
}

func newRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(store).Register(r.Group("/api/v1/templates"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestTemplateHandlers(t *testing.T) {
	store := fakeStore{templates: map[string]*domain.Template{
		"landing": {ID: "landing", Name: "Landing", IsPublic: true, Files: map[string]string{"index.html": "x"}},
		"draft":   {ID: "draft", Name: "Internal"},
	}}
	r := newRouter(store)

	w := get(r, "/api/v1/templates")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"file_count":1`)
	assert.NotContains(t, w.Body.String(), "Internal")

	w = get(r, "/api/v1/templates/landing")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"index.html":"x"`)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/templates/draft").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/templates/missing").Code)

	r = newRouter(fakeStore{listErr: errors.New("db down")})
	assert.Equal(t, http.StatusInternalServerError, get(r, "/api/v1/templates").Code)
}
