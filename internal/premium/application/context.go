package application

import (
	"context"
	"errors"
)

type contextKey string

const reconcilerCtxKey contextKey = "premium_reconciler"

// ErrNoReconciler is returned when a consumer asks for the premium surface
// outside an active provider scope.
var ErrNoReconciler = errors.New("premium: reconciler not found in context; wrap the context with application.WithReconciler first")

// WithReconciler attaches the reconciler to the context so downstream
// consumers can reach the premium surface.
func WithReconciler(ctx context.Context, r *Reconciler) context.Context {
	return context.WithValue(ctx, reconcilerCtxKey, r)
}

// FromContext returns the reconciler attached to the context. Lookup
// without a provider scope fails loudly instead of handing back an
// unusable default.
func FromContext(ctx context.Context) (*Reconciler, error) {
	r, ok := ctx.Value(reconcilerCtxKey).(*Reconciler)
	if !ok || r == nil {
		return nil, ErrNoReconciler
	}
	return r, nil
}
