package application

import (
	"context"
	"log/slog"

	"github.com/novaplan/premium/internal/premium/domain"
)

// Acknowledger finalizes purchases with the store so they are not
// auto-refunded. It keeps no attempt history: the store's own acknowledged
// flag is the only deduplication, and an unacknowledged purchase is simply
// re-attempted on the next restore pass.
type Acknowledger struct {
	store  domain.Store
	logger *slog.Logger
}

// NewAcknowledger creates an acknowledger backed by the store.
func NewAcknowledger(store domain.Store, logger *slog.Logger) *Acknowledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Acknowledger{store: store, logger: logger}
}

// Finalize acknowledges the purchase as a non-consumable entitlement.
// It never propagates an error to its caller; a failure leaves the
// purchase eligible for retry on the next restore.
func (a *Acknowledger) Finalize(ctx context.Context, p domain.Purchase) {
	if err := a.store.FinalizePurchase(ctx, p, false); err != nil {
		absorb(ctx, a.logger.With("product_id", p.ProductID), "purchase.finalize", err)
		return
	}
	a.logger.DebugContext(ctx, "purchase finalized", "product_id", p.ProductID)
}
