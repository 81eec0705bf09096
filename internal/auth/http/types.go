package http

import (
	"context"

	"github.com/markode-co/MarkodeAITool/internal/users"
)

// UserLookup is satisfied by users.Repo.
type UserLookup interface {
	GetByFirebaseUID(ctx context.Context, firebaseUID string) (*users.User, error)
}

type Handler struct {
	users UserLookup
}

func New(users UserLookup) *Handler {
	return &Handler{users: users}
}
