package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID carries the authenticated user's id (canonical UUID
	// string) once the authentication middleware has run.
	CtxKeyUserID ctxKey = "user_id"
)

// UserIDFromContext returns the authenticated user id, or "" when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// ContextWithUserID attaches the authenticated user id to the context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}
