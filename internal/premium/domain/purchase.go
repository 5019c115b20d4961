package domain

// Purchase is a purchase record as reported by the billing store, either
// from a restore query or from a live purchase event.
type Purchase struct {
	ProductID    string
	Acknowledged bool
	AutoRenewing bool
	// Token is the opaque transaction handle used to finalize the
	// purchase with the store.
	Token string
}

// PurchaseError is a purchase failure reported by the store's error
// listener. It never changes entitlement; it is logged and dropped.
type PurchaseError struct {
	ProductID string
	Code      string
	Message   string
}

func (e PurchaseError) Error() string {
	if e.ProductID == "" {
		return "purchase error " + e.Code + ": " + e.Message
	}
	return "purchase error " + e.Code + " for " + e.ProductID + ": " + e.Message
}
