package application

import (
	"context"
	"log/slog"
)

// absorb is the single place where a best-effort step swallows its error.
//
// Which steps absorb and which propagate is fixed policy, not a per-call
// accident:
//
//	absorbed:   connect, catalog fetch, finalize, remote sync (each leg),
//	            purchase-error listener, every teardown step
//	propagated: restore's existing-purchases fetch, purchase request
func absorb(ctx context.Context, logger *slog.Logger, op string, err error) {
	if err == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.WarnContext(ctx, "step failed, continuing",
		"operation", op,
		"error", err,
	)
}
