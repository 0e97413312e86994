package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrRefundNotFound    = errors.New("refund not found")
	ErrOrderAlreadyPaid  = errors.New("order already paid")
	ErrOrderNotPayable   = errors.New("order is not in a payable state")
	ErrRefnoMismatch     = errors.New("reference number does not match order")
	ErrSignatureInvalid  = errors.New("webhook signature invalid")
	ErrSigningKeyMissing = errors.New("webhook signing key not configured")
	ErrRefundTooLarge    = errors.New("refund amount exceeds payment amount")
)

// GatewayError carries the gateway's status code and raw body so operators
// can diagnose failed calls. Transport failures have StatusCode 0.
type GatewayError struct {
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("datatrans %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("datatrans %s: status %d: %s", e.Operation, e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}
