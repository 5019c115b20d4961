package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/novaplan/premium/internal/premium/domain"
)

// CatalogLoader fetches purchasable product definitions from the store
// and caches the last successfully fetched set. A fetch replaces the whole
// snapshot; a failed fetch leaves it unchanged.
type CatalogLoader struct {
	store  domain.Store
	ids    []string
	kind   domain.ProductKind
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot []domain.Product
}

// NewCatalogLoader creates a loader for the configured product ids.
func NewCatalogLoader(store domain.Store, ids []string, kind domain.ProductKind, logger *slog.Logger) *CatalogLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogLoader{store: store, ids: ids, kind: kind, logger: logger}
}

// Reload fetches the catalog and replaces the cached snapshot. Store
// errors are absorbed: the previous snapshot stays in place and is
// returned unchanged.
func (l *CatalogLoader) Reload(ctx context.Context) []domain.Product {
	products, err := l.store.FetchCatalog(ctx, l.ids, l.kind)
	if err != nil {
		absorb(ctx, l.logger, "catalog.reload", err)
		return l.Snapshot()
	}

	l.mu.Lock()
	l.snapshot = products
	l.mu.Unlock()

	l.logger.DebugContext(ctx, "catalog reloaded", "products", len(products))
	return products
}

// Snapshot returns a copy of the last fetched product set, so callers
// cannot mutate the shared cache.
func (l *CatalogLoader) Snapshot() []domain.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Product(nil), l.snapshot...)
}
