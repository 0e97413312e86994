package datatrans

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tickethub/datatrans-service/internal/config"
	"github.com/tickethub/datatrans-service/internal/domain"
)

const (
	requestTimeout    = 10 * time.Second
	statusMaxAttempts = 3
	statusRetryDelay  = 500 * time.Millisecond
)

// Client talks to the datatrans transaction API with basic auth.
// It holds no local state beyond credentials and endpoints.
type Client struct {
	env         Environment
	merchantID  string
	apiPassword string
	httpClient  *http.Client
}

func NewClient(cfg config.Datatrans) *Client {
	return NewClientWithEnvironment(EnvironmentFor(cfg.Sandbox), cfg.MerchantID, cfg.APIPassword)
}

func NewClientWithEnvironment(env Environment, merchantID, apiPassword string) *Client {
	return &Client{
		env:         env,
		merchantID:  merchantID,
		apiPassword: apiPassword,
		httpClient:  &http.Client{Timeout: requestTimeout},
	}
}

type createTransactionRequest struct {
	Currency       string          `json:"currency"`
	RefNo          string          `json:"refno"`
	Amount         int64           `json:"amount"`
	PaymentMethods []string        `json:"paymentMethods"`
	Redirect       redirectSection `json:"redirect"`
	Webhook        *webhookSection `json:"webhook,omitempty"`
}

type redirectSection struct {
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
	ErrorURL   string `json:"errorUrl"`
}

type webhookSection struct {
	URL string `json:"url"`
}

type createTransactionResponse struct {
	TransactionID string `json:"transactionId"`
}

type transactionStatusResponse struct {
	TransactionID string `json:"transactionId"`
	RefNo         string `json:"refno"`
	Status        string `json:"status"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"paymentMethod"`
	Detail        struct {
		Authorize struct {
			Amount int64 `json:"amount"`
		} `json:"authorize"`
	} `json:"detail"`
}

type creditTransactionRequest struct {
	Currency string `json:"currency"`
	RefNo    string `json:"refno"`
	Amount   int64  `json:"amount"`
}

func (c *Client) CreateTransaction(ctx context.Context, in domain.CreateTransactionInput) (*domain.CreateTransactionOutput, error) {
	body := createTransactionRequest{
		Currency:       in.Currency,
		RefNo:          in.RefNo,
		Amount:         in.AmountMinor,
		PaymentMethods: in.PaymentMethods,
		Redirect: redirectSection{
			SuccessURL: in.Redirect.SuccessURL,
			CancelURL:  in.Redirect.CancelURL,
			ErrorURL:   in.Redirect.ErrorURL,
		},
	}
	if in.WebhookURL != "" {
		body.Webhook = &webhookSection{URL: in.WebhookURL}
	}

	var resp createTransactionResponse
	if err := c.do(ctx, "create transaction", http.MethodPost, c.env.APIBase+"/v1/transactions", body, &resp); err != nil {
		return nil, err
	}
	if resp.TransactionID == "" {
		return nil, &domain.GatewayError{
			Operation: "create transaction",
			Err:       fmt.Errorf("response missing transactionId"),
		}
	}

	return &domain.CreateTransactionOutput{
		TransactionID: resp.TransactionID,
		StartURL:      c.env.StartBase + "/v1/start/" + resp.TransactionID,
	}, nil
}

// GetTransactionStatus fetches the gateway's view of one transaction.
// The call is idempotent, so transport failures and 5xx responses are
// retried a bounded number of times before surfacing a GatewayError.
func (c *Client) GetTransactionStatus(ctx context.Context, transactionID string) (*domain.GatewayTransaction, error) {
	url := c.env.APIBase + "/v1/transactions/" + transactionID

	var resp transactionStatusResponse
	var lastErr error
	for attempt := 1; attempt <= statusMaxAttempts; attempt++ {
		lastErr = c.do(ctx, "transaction status", http.MethodGet, url, nil, &resp)
		if lastErr == nil {
			break
		}
		if !retryable(lastErr) || attempt == statusMaxAttempts {
			return nil, lastErr
		}
		select {
		case <-ctx.Done():
			return nil, &domain.GatewayError{Operation: "transaction status", Err: ctx.Err()}
		case <-time.After(statusRetryDelay * time.Duration(attempt)):
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	if resp.TransactionID == "" || resp.Status == "" {
		return nil, &domain.GatewayError{
			Operation: "transaction status",
			Err:       fmt.Errorf("response missing transactionId or status"),
		}
	}

	return &domain.GatewayTransaction{
		TransactionID: resp.TransactionID,
		RefNo:         resp.RefNo,
		Status:        resp.Status,
		Currency:      resp.Currency,
		AmountMinor:   resp.Detail.Authorize.Amount,
		PaymentMethod: resp.PaymentMethod,
	}, nil
}

func (c *Client) CreditTransaction(ctx context.Context, transactionID, refno string, amountMinor int64, currency string) error {
	body := creditTransactionRequest{
		Currency: currency,
		RefNo:    refno,
		Amount:   amountMinor,
	}
	url := c.env.APIBase + "/v1/transactions/" + transactionID + "/credit"
	return c.do(ctx, "credit transaction", http.MethodPost, url, body, nil)
}

func (c *Client) do(ctx context.Context, operation, method, url string, reqBody, respBody any) error {
	var reader io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return &domain.GatewayError{Operation: operation, Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &domain.GatewayError{Operation: operation, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.merchantID, c.apiPassword)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.GatewayError{Operation: operation, Err: err}
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return &domain.GatewayError{Operation: operation, Err: err}
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if respBody == nil {
			return nil
		}
		if err := json.Unmarshal(responseBodyBytes, respBody); err != nil {
			return &domain.GatewayError{Operation: operation, Err: err}
		}
		return nil
	}

	return &domain.GatewayError{
		Operation:  operation,
		StatusCode: response.StatusCode,
		Body:       string(responseBodyBytes),
	}
}

func retryable(err error) bool {
	ge, ok := err.(*domain.GatewayError)
	if !ok {
		return false
	}
	// transport failure or gateway-side error
	return ge.StatusCode == 0 || ge.StatusCode >= 500
}
