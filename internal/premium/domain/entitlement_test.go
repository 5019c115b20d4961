package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateEntitlement_EmptySet(t *testing.T) {
	require.False(t, EvaluateEntitlement(nil))
	require.False(t, EvaluateEntitlement([]Purchase{}))
}

func TestEvaluateEntitlement_AutoRenewing(t *testing.T) {
	purchases := []Purchase{
		{ProductID: "premium.monthly", AutoRenewing: true},
	}
	require.True(t, EvaluateEntitlement(purchases))
}

func TestEvaluateEntitlement_AcknowledgedButNotRenewing(t *testing.T) {
	purchases := []Purchase{
		{ProductID: "premium.yearly", Acknowledged: true, AutoRenewing: false},
	}
	require.True(t, EvaluateEntitlement(purchases))
}

func TestEvaluateEntitlement_NeitherFlag(t *testing.T) {
	purchases := []Purchase{
		{ProductID: "premium.monthly"},
		{ProductID: "premium.yearly"},
	}
	require.False(t, EvaluateEntitlement(purchases))
}

func TestEvaluateEntitlement_AnyPurchaseCounts(t *testing.T) {
	purchases := []Purchase{
		{ProductID: "premium.monthly"},
		{ProductID: "premium.yearly", Acknowledged: true},
		{ProductID: "premium.lifetime"},
	}
	require.True(t, EvaluateEntitlement(purchases))
}
