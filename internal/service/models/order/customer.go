package order

// CustomerKind distinguishes registered customers from guests. The two must
// never be confusable: only registered customers accrue loyalty points.
type CustomerKind string

const (
	CustomerRegistered CustomerKind = "registered"
	CustomerGuest      CustomerKind = "guest"
)

// GuestContact holds the contact details collected for a guest order.
type GuestContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CustomerIdentity is a tagged variant: either a registered customer id or
// guest contact info, never both.
type CustomerIdentity struct {
	Kind       CustomerKind `json:"kind"`
	CustomerID int64        `json:"customerId,omitempty"`
	Guest      GuestContact `json:"guest,omitempty"`
}

// Registered builds the identity of an authenticated customer.
func Registered(customerID int64) CustomerIdentity {
	return CustomerIdentity{Kind: CustomerRegistered, CustomerID: customerID}
}

// Guest builds the identity of a guest order.
func Guest(contact GuestContact) CustomerIdentity {
	return CustomerIdentity{Kind: CustomerGuest, Guest: contact}
}

// IsRegistered reports whether the order belongs to an authenticated
// customer.
func (c CustomerIdentity) IsRegistered() bool {
	return c.Kind == CustomerRegistered
}
