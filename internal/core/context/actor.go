// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Actor identifies who is operating the till: the branch and, when known, the worker.
// It only feeds log enrichment; ledger rows take their branch and worker from the
// parent document, never from the context.
type Actor struct {
	BranchID string
	WorkerID string
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}
