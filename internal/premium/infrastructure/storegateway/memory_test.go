package storegateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novaplan/premium/internal/premium/domain"
)

func TestMemoryStore_RequiresConnection(t *testing.T) {
	store := NewMemoryStore(nil, nil, nil)

	_, err := store.FetchExistingPurchases(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, store.Connect(context.Background()))
	_, err = store.FetchExistingPurchases(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.Disconnect())
	_, err = store.FetchExistingPurchases(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestMemoryStore_CatalogFiltersByID(t *testing.T) {
	store := NewMemoryStore([]domain.Product{
		{ID: "premium.monthly"},
		{ID: "premium.yearly"},
	}, nil, nil)
	require.NoError(t, store.Connect(context.Background()))

	products, err := store.FetchCatalog(context.Background(), []string{"premium.yearly"}, domain.KindSubscription)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "premium.yearly", products[0].ID)
}

func TestMemoryStore_PurchaseEmitsUpdate(t *testing.T) {
	store := NewMemoryStore(nil, nil, nil)
	require.NoError(t, store.Connect(context.Background()))

	var got []domain.Purchase
	sub, err := store.OnPurchaseUpdated(func(ctx context.Context, p domain.Purchase) {
		got = append(got, p)
	})
	require.NoError(t, err)

	require.NoError(t, store.RequestPurchase(context.Background(), domain.PurchaseRequest{ProductID: "premium.monthly"}))

	require.Len(t, got, 1)
	require.Equal(t, "premium.monthly", got[0].ProductID)
	require.True(t, got[0].AutoRenewing)
	require.NotEmpty(t, got[0].Token)

	purchases, err := store.FetchExistingPurchases(context.Background())
	require.NoError(t, err)
	require.Len(t, purchases, 1)

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe())

	require.NoError(t, store.RequestPurchase(context.Background(), domain.PurchaseRequest{ProductID: "premium.yearly"}))
	require.Len(t, got, 1)
}

func TestMemoryStore_FinalizeMarksAcknowledged(t *testing.T) {
	store := NewMemoryStore(nil, []domain.Purchase{
		{ProductID: "premium.monthly", Token: "t1"},
	}, nil)
	require.NoError(t, store.Connect(context.Background()))

	require.NoError(t, store.FinalizePurchase(context.Background(), domain.Purchase{Token: "t1"}, false))

	purchases, err := store.FetchExistingPurchases(context.Background())
	require.NoError(t, err)
	require.True(t, purchases[0].Acknowledged)
}

func TestMemoryStore_ErrorListener(t *testing.T) {
	store := NewMemoryStore(nil, nil, nil)

	var got []domain.PurchaseError
	_, err := store.OnPurchaseError(func(ctx context.Context, e domain.PurchaseError) {
		got = append(got, e)
	})
	require.NoError(t, err)

	store.EmitPurchaseError(context.Background(), domain.PurchaseError{Code: "USER_CANCELED"})
	require.Len(t, got, 1)
	require.Equal(t, "USER_CANCELED", got[0].Code)
}
