// Package identity resolves the currently authenticated remote user.
// Remote entitlement sync only runs when a user is resolvable; otherwise
// the sync degrades to a local-only update.
package identity

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// TokenResolver reports the configured user as signed in while a valid
// OAuth token can be produced. An expired or missing token makes the
// identity unresolvable rather than erroring.
type TokenResolver struct {
	source oauth2.TokenSource
	userID uuid.UUID
	logger *slog.Logger
}

// NewTokenResolver creates a resolver backed by a token source.
func NewTokenResolver(source oauth2.TokenSource, userID uuid.UUID, logger *slog.Logger) *TokenResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenResolver{source: source, userID: userID, logger: logger}
}

// CurrentUser returns the signed-in user, if any.
func (r *TokenResolver) CurrentUser(ctx context.Context) (uuid.UUID, bool) {
	if r == nil || r.source == nil || r.userID == uuid.Nil {
		return uuid.Nil, false
	}
	token, err := r.source.Token()
	if err != nil {
		r.logger.DebugContext(ctx, "identity token unavailable", "error", err)
		return uuid.Nil, false
	}
	if !token.Valid() {
		return uuid.Nil, false
	}
	return r.userID, true
}

// StaticResolver always reports the given user, for local mode and tests.
type StaticResolver struct {
	UserID uuid.UUID
}

// CurrentUser returns the fixed user.
func (r StaticResolver) CurrentUser(ctx context.Context) (uuid.UUID, bool) {
	if r.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return r.UserID, true
}
