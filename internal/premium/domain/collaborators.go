package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProfileStore mirrors the premium flag into the remote profile record.
// SetPremium has merge semantics: other profile fields are untouched and
// writing the same value repeatedly has no cumulative effect.
type ProfileStore interface {
	SetPremium(ctx context.Context, userID uuid.UUID, premium bool) error
}

// TagService forwards the premium flag to the push-notification tagger.
type TagService interface {
	SetTags(ctx context.Context, tags map[string]bool) error
}

// IdentityResolver reports the currently authenticated remote user, if
// any. An unresolvable identity turns remote sync into a silent no-op.
type IdentityResolver interface {
	CurrentUser(ctx context.Context) (uuid.UUID, bool)
}
