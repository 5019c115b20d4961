package domain

// EvaluateEntitlement computes the premium flag from a set of purchase
// records. A purchase counts if it is actively auto-renewing or if it was
// already acknowledged (a prior grant succeeded even when the renewal
// status is stale). The predicate is OR-combined across all purchases,
// not per product. An empty set evaluates to false.
//
// The function is pure; callers decide whether to propagate the result.
func EvaluateEntitlement(purchases []Purchase) bool {
	for _, p := range purchases {
		if p.AutoRenewing || p.Acknowledged {
			return true
		}
	}
	return false
}
