package domain

import "context"

// PurchaseRequest carries everything the store needs to start a purchase.
type PurchaseRequest struct {
	ProductID string
	Kind      ProductKind
	// OfferToken selects a specific pricing offer. Empty means the store
	// picks its default, which it may also reject.
	OfferToken string
	// ObfuscatedAccountID ties the purchase to the signed-in account
	// without exposing the raw identity to the store.
	ObfuscatedAccountID string
}

// Subscription is a single-owner handle to a registered store listener.
// Unsubscribe releases it; releasing an already-released handle is a no-op.
type Subscription interface {
	Unsubscribe() error
}

// Store is the boundary to the platform billing service. Exactly one
// connection is open at a time; Connect must succeed before any query and
// Disconnect releases listener subscriptions.
type Store interface {
	Connect(ctx context.Context) error
	Disconnect() error

	FetchCatalog(ctx context.Context, ids []string, kind ProductKind) ([]Product, error)
	FetchExistingPurchases(ctx context.Context) ([]Purchase, error)
	RequestPurchase(ctx context.Context, req PurchaseRequest) error
	// FinalizePurchase acknowledges or consumes the purchase with the
	// store. The premium flow always finalizes as non-consumable.
	FinalizePurchase(ctx context.Context, p Purchase, consumable bool) error

	OnPurchaseUpdated(handler func(ctx context.Context, p Purchase)) (Subscription, error)
	OnPurchaseError(handler func(ctx context.Context, e PurchaseError)) (Subscription, error)
}
