package middleware

import (
	"context"

	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// WithUser injects the authenticated user into the context.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user from the context, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	v := ctx.Value(userContextKey)
	if v == nil {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
