package authz

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

const (
	RoleOwner = "owner"
	OwnerID   = int64(1)
)

type AuthUser struct {
	ID   int64
	Role string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsOwner reports whether user is the signed-in Owner.
func IsOwner(user *AuthUser) bool {
	return user != nil && user.Role == RoleOwner
}

// RequireOwner returns ErrUnauthenticated when no user is signed in and
// ErrForbidden when the user is not the Owner.
func RequireOwner(ctx context.Context) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	if !IsOwner(user) {
		return ErrForbidden
	}
	return nil
}
