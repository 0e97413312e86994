package domain

import "context"

// RedirectURLs are where the gateway sends the payer's browser back.
type RedirectURLs struct {
	SuccessURL string
	CancelURL  string
	ErrorURL   string
}

type CreateTransactionInput struct {
	RefNo          string
	AmountMinor    int64
	Currency       string
	PaymentMethods []string
	Redirect       RedirectURLs
	WebhookURL     string
}

type CreateTransactionOutput struct {
	TransactionID string
	StartURL      string
}

// Gateway is the outbound transaction API of the payment provider.
type Gateway interface {
	CreateTransaction(ctx context.Context, in CreateTransactionInput) (*CreateTransactionOutput, error)
	GetTransactionStatus(ctx context.Context, transactionID string) (*GatewayTransaction, error)
	CreditTransaction(ctx context.Context, transactionID, refno string, amountMinor int64, currency string) error
}
