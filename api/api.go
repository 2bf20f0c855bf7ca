// Package api holds the HTTP plumbing shared by the handlers: request context
// values, middleware and request metrics.
package api

import (
	"context"
	"time"

	"github.com/linesmerrill/claim-reports-api/casework"
)

// StoreTimeout bounds one load, modify and save cycle against the store
const StoreTimeout = 10 * time.Second

type contextKey string

const actorKey contextKey = "actor"

// WithStoreTimeout creates a context with the store timeout
func WithStoreTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, StoreTimeout)
}

// WithActor stores the caller on ctx
func WithActor(ctx context.Context, actor casework.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the caller set by ActorMiddleware
func ActorFromContext(ctx context.Context) (casework.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(casework.Actor)
	return actor, ok
}
