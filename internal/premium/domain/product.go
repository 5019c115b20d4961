package domain

// ProductKind classifies what the billing store sells.
type ProductKind string

const (
	// KindSubscription is the only kind the premium flow purchases.
	KindSubscription ProductKind = "subs"
)

// OfferDetail is one subscription pricing offer within a product.
// The token is opaque to us; the store requires it to start a purchase
// against a specific base plan.
type OfferDetail struct {
	BasePlanID string
	Token      string
}

// Product is a purchasable product as last fetched from the billing store.
// A catalog fetch replaces the whole set; products are never merged or
// mutated after the fetch.
type Product struct {
	ID           string
	PriceMicros  int64
	DisplayPrice string
	Platform     string
	Offers       []OfferDetail
}
