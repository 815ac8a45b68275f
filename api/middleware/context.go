package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-backend/pkg/access"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxRole     contextKey = "actor_role"
	ctxAccessID contextKey = "access_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// AccessIDFromContext returns the session id (token jti) the request
// authenticated with. Logout revokes this id.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// PrincipalFromContext rebuilds the caller identity seeded by the Auth
// middleware. Unauthenticated requests yield a zero principal.
func PrincipalFromContext(ctx context.Context) access.Principal {
	p := access.Principal{}
	if id, err := uuid.Parse(UserIDFromContext(ctx)); err == nil {
		p.UserID = id
	}
	if role, err := enums.ParseRole(RoleFromContext(ctx)); err == nil {
		p.Role = role
	}
	return p
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}
