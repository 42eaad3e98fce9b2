package internal

import "context"

type userIDKey struct{}

// ContextWithUserID stores the authenticated user's id, set by the auth
// middleware after token validation.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user's id, or "" when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if userID, ok := ctx.Value(userIDKey{}).(string); ok {
		return userID
	}
	return ""
}

// ActorFromContext returns the user id for audit attribution, falling back
// to "system" for unauthenticated callers such as workers.
func ActorFromContext(ctx context.Context) string {
	if userID := UserIDFromContext(ctx); userID != "" {
		return userID
	}
	return "system"
}
