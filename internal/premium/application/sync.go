package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/novaplan/premium/internal/premium/domain"
)

// tagPremium is the tag key forwarded to the push-notification service.
const tagPremium = "is_premium"

// RemoteSync pushes an entitlement value to the remote profile record and
// to the push-tag service. Both legs are attempted independently and both
// are idempotent; a failure in either is absorbed without rolling back the
// other. Without a resolvable identity the push is a silent no-op.
type RemoteSync struct {
	profiles domain.ProfileStore
	tags     domain.TagService
	identity domain.IdentityResolver
	logger   *slog.Logger

	profileBreaker *gobreaker.CircuitBreaker[any]
	tagBreaker     *gobreaker.CircuitBreaker[any]
}

// NewRemoteSync creates the sync. Nil collaborators are tolerated; the
// corresponding leg is skipped.
func NewRemoteSync(profiles domain.ProfileStore, tags domain.TagService, identity domain.IdentityResolver, logger *slog.Logger) *RemoteSync {
	if logger == nil {
		logger = slog.Default()
	}
	s := &RemoteSync{
		profiles: profiles,
		tags:     tags,
		identity: identity,
		logger:   logger,
	}
	s.profileBreaker = s.newBreaker("profile-store")
	s.tagBreaker = s.newBreaker("tag-service")
	return s
}

func (s *RemoteSync) newBreaker(name string) *gobreaker.CircuitBreaker[any] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Info("circuit breaker state changed",
				"collaborator", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return gobreaker.NewCircuitBreaker[any](settings)
}

// Push mirrors the entitlement value to both collaborators. It never
// propagates an error: the local entitlement state is already updated and
// the next restore or reload is the recovery mechanism.
func (s *RemoteSync) Push(ctx context.Context, premium bool) {
	userID, ok := s.identity.CurrentUser(ctx)
	if !ok {
		s.logger.DebugContext(ctx, "no remote identity, skipping entitlement sync")
		return
	}

	logger := s.logger.With("user_id", userID, "is_premium", premium)

	if s.profiles != nil {
		_, err := s.profileBreaker.Execute(func() (any, error) {
			return nil, s.profiles.SetPremium(ctx, userID, premium)
		})
		absorb(ctx, logger, "sync.profile", err)
	}

	if s.tags != nil {
		_, err := s.tagBreaker.Execute(func() (any, error) {
			return nil, s.tags.SetTags(ctx, map[string]bool{tagPremium: premium})
		})
		absorb(ctx, logger, "sync.tags", err)
	}
}
