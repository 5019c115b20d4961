package storegateway

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/novaplan/premium/internal/premium/domain"
)

// ErrNotConnected is returned by store queries before Connect succeeded.
var ErrNotConnected = errors.New("storegateway: not connected")

// MemoryStore is an in-process billing store for local mode and tests.
// RequestPurchase completes immediately and emits a purchase-updated
// event, so the whole reconciliation flow can run without a gateway.
type MemoryStore struct {
	mu        sync.Mutex
	connected bool
	products  []domain.Product
	purchases []domain.Purchase
	logger    *slog.Logger

	updates listenerSet[domain.Purchase]
	errs    listenerSet[domain.PurchaseError]
}

// NewMemoryStore creates a store pre-seeded with products and purchases.
func NewMemoryStore(products []domain.Product, purchases []domain.Purchase, logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{products: products, purchases: purchases, logger: logger}
}

func (s *MemoryStore) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return nil
}

func (s *MemoryStore) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

func (s *MemoryStore) FetchCatalog(ctx context.Context, ids []string, kind domain.ProductKind) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []domain.Product
	for _, p := range s.products {
		if wanted[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) FetchExistingPurchases(ctx context.Context) ([]domain.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	return append([]domain.Purchase(nil), s.purchases...), nil
}

// RequestPurchase completes the purchase synchronously and notifies the
// purchase-updated listeners, mirroring what the live event path sees.
func (s *MemoryStore) RequestPurchase(ctx context.Context, req domain.PurchaseRequest) error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return ErrNotConnected
	}
	purchase := domain.Purchase{
		ProductID:    req.ProductID,
		AutoRenewing: true,
		Token:        uuid.NewString(),
	}
	s.purchases = append(s.purchases, purchase)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "memory store purchase completed", "product_id", req.ProductID)
	s.updates.dispatch(ctx, purchase)
	return nil
}

func (s *MemoryStore) FinalizePurchase(ctx context.Context, p domain.Purchase, consumable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return ErrNotConnected
	}
	for i := range s.purchases {
		if s.purchases[i].Token == p.Token {
			s.purchases[i].Acknowledged = true
			return nil
		}
	}
	return errors.New("storegateway: unknown purchase token")
}

func (s *MemoryStore) OnPurchaseUpdated(handler func(ctx context.Context, p domain.Purchase)) (domain.Subscription, error) {
	return s.updates.add(handler), nil
}

func (s *MemoryStore) OnPurchaseError(handler func(ctx context.Context, e domain.PurchaseError)) (domain.Subscription, error) {
	return s.errs.add(handler), nil
}

// EmitPurchaseError injects a purchase error, for tests and demos.
func (s *MemoryStore) EmitPurchaseError(ctx context.Context, e domain.PurchaseError) {
	s.errs.dispatch(ctx, e)
}

var _ domain.Store = (*MemoryStore)(nil)
