package publisher

type PaymentEvent struct {
	PaymentID   string `json:"payment_id"`
	OrderCode   string `json:"order_code"`
	EventSlug   string `json:"event_slug"`
	Type        string `json:"type"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Path        string `json:"path,omitempty"`
}

const (
	EventPaymentConfirmed = "payment.confirmed"
	EventRefundDone       = "refund.done"
)
