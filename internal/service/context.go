package service

import "context"

type actorKey struct{}

// WithActor records the id of the user performing the operation so that
// emitted events can be attributed.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext returns the id stored by WithActor.
func ActorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}
