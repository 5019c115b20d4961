package application

import "github.com/novaplan/premium/internal/premium/domain"

// ResolveOffer derives the offer token the store needs to start a purchase
// of productID. It prefers the offer whose base plan matches
// preferredBasePlan and falls back to the first available offer. When the
// catalog has no entry for the product, or the entry carries no offers, it
// returns ok=false and the purchase request proceeds without an explicit
// offer.
//
// The lookup is redone on every purchase attempt against the given
// catalog; resolved tokens are never cached.
func ResolveOffer(productID string, catalog []domain.Product, preferredBasePlan string) (string, bool) {
	for _, product := range catalog {
		if product.ID != productID {
			continue
		}
		if len(product.Offers) == 0 {
			return "", false
		}
		for _, offer := range product.Offers {
			if offer.BasePlanID == preferredBasePlan {
				return offer.Token, true
			}
		}
		return product.Offers[0].Token, true
	}
	return "", false
}
