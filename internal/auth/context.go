package auth

import (
	"context"

	"github.com/hyunwoopark/meritpoint/internal/model"
)

type contextKey struct{}

// WithActor stores the authenticated actor on the request context.
func WithActor(ctx context.Context, actor *model.Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (*model.Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(*model.Actor)
	return actor, ok
}
