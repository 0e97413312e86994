package domain

// GatewayTransaction is the gateway-side view of one payment attempt.
// It is never persisted beyond its identifier in Payment.TransactionID.
type GatewayTransaction struct {
	TransactionID string
	RefNo         string
	Status        string
	Currency      string
	AmountMinor   int64
	PaymentMethod string
}

// Statuses the gateway reports for a transaction that completed payment.
const (
	TransactionStatusAuthorized  = "authorized"
	TransactionStatusSettled     = "settled"
	TransactionStatusTransmitted = "transmitted"
)

// IsPaidStatus reports whether a gateway status makes the transaction
// eligible for local confirmation.
func IsPaidStatus(status string) bool {
	switch status {
	case TransactionStatusAuthorized, TransactionStatusSettled, TransactionStatusTransmitted:
		return true
	}
	return false
}
