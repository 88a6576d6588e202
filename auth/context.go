package auth

import (
	"context"

	"hottakes/domain"
)

const (
	userKey privateKey = "user"
)

type privateKey string

// SetUser returns a context carrying the authenticated user.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the authenticated user from the context, or nil if the
// request never authenticated.
func GetUser(ctx context.Context) *domain.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}
