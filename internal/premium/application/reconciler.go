package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/novaplan/premium/internal/premium/domain"
)

// State is the orchestrator lifecycle state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateConnecting    State = "connecting"
	// StateReady means startup finished; catalog and entitlement stay
	// independently refreshable.
	StateReady State = "ready"
	// StateFailed means the store connection could not be opened. The
	// surface stays usable but empty; a manual restore or reload is the
	// recovery path.
	StateFailed State = "failed"
)

// ErrNoProductID is returned by Purchase when neither an explicit product
// id nor a configured default is available.
var ErrNoProductID = errors.New("premium: no product id given and no default configured")

// Config carries the reconciler's own knobs. Collaborator wiring lives in
// the app container.
type Config struct {
	// Enabled gates the whole flow. When false the reconciler reports
	// loaded immediately, keeps entitlement unchanged and turns every
	// operation into a no-op.
	Enabled bool

	ProductIDs        []string
	DefaultProductID  string
	PreferredBasePlan string
}

// Reconciler owns the entitlement reconciliation lifecycle: connect to the
// store, load the catalog, run a restore pass, then listen for live
// purchase events. Failures during startup are absorbed per step, so the
// surface always becomes usable even when it stays empty.
type Reconciler struct {
	cfg      Config
	store    domain.Store
	catalog  *CatalogLoader
	acks     *Acknowledger
	remote   *RemoteSync
	identity domain.IdentityResolver
	logger   *slog.Logger

	mu      sync.Mutex
	state   State
	loading bool
	premium bool
	// grantSeq counts live-purchase grants. A restore pass snapshots it
	// before fetching and may only lower entitlement if no grant landed
	// in between, so a slow restore cannot clobber a fresher grant.
	grantSeq uint64
	started  bool
	closed   bool
	subs     []domain.Subscription
}

// NewReconciler wires the orchestrator. Start must be called before the
// surface reports anything useful.
func NewReconciler(cfg Config, store domain.Store, catalog *CatalogLoader, acks *Acknowledger, remote *RemoteSync, identity domain.IdentityResolver, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reconciler{
		cfg:      cfg,
		store:    store,
		catalog:  catalog,
		acks:     acks,
		remote:   remote,
		identity: identity,
		logger:   logger,
		state:    StateUninitialized,
		loading:  true,
	}
	if !cfg.Enabled {
		r.state = StateReady
		r.loading = false
	}
	return r
}

// Start runs the startup sequence: register listeners, open the
// connection, load the catalog and run a restore pass. Each step's failure
// is caught; loading completes regardless. Start is idempotent per mount.
func (r *Reconciler) Start(ctx context.Context) {
	if !r.cfg.Enabled {
		r.logger.DebugContext(ctx, "premium flow disabled, skipping startup")
		return
	}

	r.mu.Lock()
	if r.started || r.closed {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.state = StateConnecting
	r.mu.Unlock()

	r.registerListeners(ctx)

	connected := true
	if err := r.store.Connect(ctx); err != nil {
		absorb(ctx, r.logger, "store.connect", err)
		connected = false
	}

	r.catalog.Reload(ctx)

	if err := r.Restore(ctx); err != nil {
		absorb(ctx, r.logger, "startup.restore", err)
	}

	r.mu.Lock()
	r.loading = false
	if connected {
		r.state = StateReady
	} else {
		r.state = StateFailed
	}
	state := r.state
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "premium reconciler started", "state", string(state))
}

// registerListeners subscribes the purchase-update and purchase-error
// listeners exactly once. Registration failures are absorbed; the restore
// path still works without live events.
func (r *Reconciler) registerListeners(ctx context.Context) {
	r.mu.Lock()
	if len(r.subs) > 0 {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	var subs []domain.Subscription
	sub, err := r.store.OnPurchaseUpdated(r.onPurchaseUpdated)
	if err != nil {
		absorb(ctx, r.logger, "listen.purchase_updated", err)
	} else {
		subs = append(subs, sub)
	}

	sub, err = r.store.OnPurchaseError(r.onPurchaseError)
	if err != nil {
		absorb(ctx, r.logger, "listen.purchase_error", err)
	} else {
		subs = append(subs, sub)
	}

	r.mu.Lock()
	r.subs = subs
	r.mu.Unlock()
}

// Restore re-derives entitlement from the store's current purchase set:
// fetch existing purchases, finalize the unacknowledged ones, evaluate the
// full set and push the result. The initial fetch is the one step allowed
// to propagate, so a caller can offer a retry.
func (r *Reconciler) Restore(ctx context.Context) error {
	if !r.cfg.Enabled {
		return nil
	}

	r.mu.Lock()
	seq := r.grantSeq
	r.mu.Unlock()

	purchases, err := r.store.FetchExistingPurchases(ctx)
	if err != nil {
		return fmt.Errorf("fetch existing purchases: %w", err)
	}

	for _, p := range purchases {
		if !p.Acknowledged {
			r.acks.Finalize(ctx, p)
		}
	}

	value := domain.EvaluateEntitlement(purchases)

	r.mu.Lock()
	if !value && r.grantSeq != seq {
		r.mu.Unlock()
		r.logger.InfoContext(ctx, "restore observed a stale purchase set, keeping live grant")
		return nil
	}
	r.premium = value
	r.mu.Unlock()

	r.remote.Push(ctx, value)
	return nil
}

// Purchase starts a purchase of productID, or of the configured default
// when productID is empty. Request errors propagate so the caller can
// surface them.
func (r *Reconciler) Purchase(ctx context.Context, productID string) error {
	if !r.cfg.Enabled {
		return nil
	}
	if productID == "" {
		productID = r.cfg.DefaultProductID
	}
	if productID == "" {
		return ErrNoProductID
	}

	req := domain.PurchaseRequest{
		ProductID: productID,
		Kind:      domain.KindSubscription,
	}
	if token, ok := ResolveOffer(productID, r.catalog.Snapshot(), r.cfg.PreferredBasePlan); ok {
		req.OfferToken = token
	}
	if userID, ok := r.identity.CurrentUser(ctx); ok {
		req.ObfuscatedAccountID = obfuscateAccountID(userID.String())
	}

	if err := r.store.RequestPurchase(ctx, req); err != nil {
		return fmt.Errorf("request purchase %s: %w", productID, err)
	}
	return nil
}

// ReloadProducts refreshes the catalog snapshot. Catalog errors are fully
// absorbed; this never fails.
func (r *Reconciler) ReloadProducts(ctx context.Context) {
	if !r.cfg.Enabled {
		return
	}
	r.catalog.Reload(ctx)
}

// onPurchaseUpdated handles a live purchase event: finalize, grant
// entitlement unconditionally and push. Only a later restore may lower the
// flag again.
func (r *Reconciler) onPurchaseUpdated(ctx context.Context, p domain.Purchase) {
	r.logger.InfoContext(ctx, "purchase update received", "product_id", p.ProductID)

	r.acks.Finalize(ctx, p)

	r.mu.Lock()
	r.premium = true
	r.grantSeq++
	r.mu.Unlock()

	r.remote.Push(ctx, true)
}

// onPurchaseError logs store purchase failures. They never change
// entitlement and never escape the listener.
func (r *Reconciler) onPurchaseError(ctx context.Context, e domain.PurchaseError) {
	r.logger.WarnContext(ctx, "purchase failed",
		"product_id", e.ProductID,
		"code", e.Code,
		"message", e.Message,
	)
}

// Close tears the reconciler down: unregister both listeners and close the
// store connection. Every step is attempted even when an earlier one
// fails; nothing propagates past the teardown boundary.
func (r *Reconciler) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	subs := r.subs
	r.subs = nil
	started := r.started
	r.mu.Unlock()

	ctx := context.Background()
	for _, sub := range subs {
		absorb(ctx, r.logger, "teardown.unsubscribe", sub.Unsubscribe())
	}
	if started && r.cfg.Enabled {
		absorb(ctx, r.logger, "teardown.disconnect", r.store.Disconnect())
	}
}

// Loading reports whether the startup sequence is still running.
func (r *Reconciler) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// IsPremium returns the current entitlement value.
func (r *Reconciler) IsPremium() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.premium
}

// State returns the lifecycle state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Products returns the last fetched catalog snapshot.
func (r *Reconciler) Products() []domain.Product {
	if !r.cfg.Enabled {
		return nil
	}
	return r.catalog.Snapshot()
}

// obfuscateAccountID hashes the account id before it crosses the store
// boundary.
func obfuscateAccountID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}
