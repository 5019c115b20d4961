package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novaplan/premium/internal/premium/domain"
)

func TestFinalize_AcknowledgesNonConsumable(t *testing.T) {
	store := &fakeStore{}
	acks := NewAcknowledger(store, testLogger())

	acks.Finalize(context.Background(), domain.Purchase{ProductID: "premium.monthly", Token: "t1"})

	require.Equal(t, []string{"t1"}, store.finalizedTokens())
}

func TestFinalize_AbsorbsStoreError(t *testing.T) {
	store := &fakeStore{finalizeErrs: map[string]error{"t1": errors.New("ack rejected")}}
	acks := NewAcknowledger(store, testLogger())

	require.NotPanics(t, func() {
		acks.Finalize(context.Background(), domain.Purchase{ProductID: "premium.monthly", Token: "t1"})
	})
	require.Empty(t, store.finalizedTokens())
}
