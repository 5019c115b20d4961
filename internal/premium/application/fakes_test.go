package application

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/novaplan/premium/internal/premium/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-test billing store with injectable failures.
type fakeStore struct {
	mu sync.Mutex

	catalog    []domain.Product
	catalogErr error

	purchases []domain.Purchase
	fetchErr  error
	// onFetch runs inside FetchExistingPurchases, before it returns. Used
	// to interleave live purchase events with a running restore.
	onFetch func()

	connectErr    error
	requestErr    error
	finalizeErrs  map[string]error
	listenErr     error
	finalized     []domain.Purchase
	requests      []domain.PurchaseRequest
	connects      int
	disconnects   int
	purchaseCb    func(ctx context.Context, p domain.Purchase)
	purchaseErrCb func(ctx context.Context, e domain.PurchaseError)
}

func (s *fakeStore) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connects++
	return s.connectErr
}

func (s *fakeStore) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects++
	return nil
}

func (s *fakeStore) FetchCatalog(ctx context.Context, ids []string, kind domain.ProductKind) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalogErr != nil {
		return nil, s.catalogErr
	}
	return s.catalog, nil
}

func (s *fakeStore) FetchExistingPurchases(ctx context.Context) ([]domain.Purchase, error) {
	s.mu.Lock()
	hook := s.onFetch
	err := s.fetchErr
	purchases := s.purchases
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

func (s *fakeStore) RequestPurchase(ctx context.Context, req domain.PurchaseRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requestErr != nil {
		return s.requestErr
	}
	s.requests = append(s.requests, req)
	return nil
}

func (s *fakeStore) FinalizePurchase(ctx context.Context, p domain.Purchase, consumable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.finalizeErrs[p.Token]; err != nil {
		return err
	}
	s.finalized = append(s.finalized, p)
	return nil
}

func (s *fakeStore) OnPurchaseUpdated(handler func(ctx context.Context, p domain.Purchase)) (domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listenErr != nil {
		return nil, s.listenErr
	}
	s.purchaseCb = handler
	return &fakeSub{}, nil
}

func (s *fakeStore) OnPurchaseError(handler func(ctx context.Context, e domain.PurchaseError)) (domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listenErr != nil {
		return nil, s.listenErr
	}
	s.purchaseErrCb = handler
	return &fakeSub{}, nil
}

func (s *fakeStore) emitPurchase(ctx context.Context, p domain.Purchase) {
	s.mu.Lock()
	cb := s.purchaseCb
	s.mu.Unlock()
	if cb != nil {
		cb(ctx, p)
	}
}

func (s *fakeStore) emitPurchaseError(ctx context.Context, e domain.PurchaseError) {
	s.mu.Lock()
	cb := s.purchaseErrCb
	s.mu.Unlock()
	if cb != nil {
		cb(ctx, e)
	}
}

func (s *fakeStore) finalizedTokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := make([]string, 0, len(s.finalized))
	for _, p := range s.finalized {
		tokens = append(tokens, p.Token)
	}
	return tokens
}

type fakeSub struct {
	mu           sync.Mutex
	unsubscribes int
	err          error
}

func (s *fakeSub) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubscribes++
	return s.err
}

type fakeIdentity struct {
	id uuid.UUID
	ok bool
}

func (f fakeIdentity) CurrentUser(ctx context.Context) (uuid.UUID, bool) {
	return f.id, f.ok
}

type fakeProfileStore struct {
	mu     sync.Mutex
	err    error
	writes []bool
}

func (f *fakeProfileStore) SetPremium(ctx context.Context, userID uuid.UUID, premium bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, premium)
	return nil
}

func (f *fakeProfileStore) values() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.writes...)
}

type fakeTagService struct {
	mu     sync.Mutex
	err    error
	writes []map[string]bool
}

func (f *fakeTagService) SetTags(ctx context.Context, tags map[string]bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, tags)
	return nil
}

func (f *fakeTagService) values() []map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]bool(nil), f.writes...)
}
