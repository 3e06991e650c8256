package ctxutil

import "context"

type actorIDKey struct{}

// WithActorID stores the acting-user identity used for audit columns.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey{}, actorID)
}

func GetActorID(ctx context.Context) string {
	val := ctx.Value(actorIDKey{})
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
