package payment

// EventType identifies a payment-provider webhook event.
type EventType string

const (
	EventSucceeded EventType = "payment_intent.succeeded"
	EventFailed    EventType = "payment_intent.payment_failed"
	EventCanceled  EventType = "payment_intent.canceled"
)

// Event is a provider webhook event after signature verification and
// parsing. OrderID is zero when the provider metadata carried no order
// reference.
type Event struct {
	ID         string
	Type       EventType
	PaymentRef string
	OrderID    int64
}
