// Package paygate integrates with the external payment gateway. The backend
// initiates transactions and records the status reported back through the
// webhook; settlement itself happens entirely on the gateway's side.
package paygate

import (
	"context"
	"fmt"
	"time"

	"github.com/recipe-room/recipe-room/internal/app/metrics"
	"github.com/recipe-room/recipe-room/internal/httputil"
)

// Transaction is the gateway's view of an initiated payment.
type Transaction struct {
	ID          string `json:"transaction_id"`
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Client talks to the payment gateway using merchant basic auth.
type Client struct {
	http        *httputil.Client
	callbackURL string
}

// Config configures the gateway connection.
type Config struct {
	BaseURL     string
	Username    string
	Password    string
	CallbackURL string
	Timeout     time.Duration
}

// New creates a gateway client.
func New(cfg Config) *Client {
	return &Client{
		http: httputil.NewClient(httputil.ClientConfig{
			BaseURL:  cfg.BaseURL,
			Username: cfg.Username,
			Password: cfg.Password,
			Timeout:  cfg.Timeout,
		}),
		callbackURL: cfg.CallbackURL,
	}
}

type createRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Reference   string  `json:"reference"`
	CallbackURL string  `json:"callback_url"`
}

// CreatePayment initiates a transaction. Reference is our payment id; the
// gateway echoes it in the webhook so the two records can be joined.
func (c *Client) CreatePayment(ctx context.Context, amount float64, currency, reference string) (Transaction, error) {
	start := time.Now()
	resp, err := c.http.Post(ctx, "/api/v1/payments", createRequest{
		Amount:      amount,
		Currency:    currency,
		Reference:   reference,
		CallbackURL: c.callbackURL,
	})
	if err != nil {
		metrics.RecordGatewayCall("create", time.Since(start), false)
		return Transaction{}, fmt.Errorf("gateway create payment: %w", err)
	}

	var tx Transaction
	if err := httputil.DecodeResponse(resp, &tx); err != nil {
		metrics.RecordGatewayCall("create", time.Since(start), false)
		return Transaction{}, fmt.Errorf("gateway create payment: %w", err)
	}
	metrics.RecordGatewayCall("create", time.Since(start), true)
	return tx, nil
}

// GetTransaction fetches the current gateway status of a transaction.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (Transaction, error) {
	start := time.Now()
	resp, err := c.http.Get(ctx, "/api/v1/payments/"+transactionID)
	if err != nil {
		metrics.RecordGatewayCall("get", time.Since(start), false)
		return Transaction{}, fmt.Errorf("gateway get transaction: %w", err)
	}

	var tx Transaction
	if err := httputil.DecodeResponse(resp, &tx); err != nil {
		metrics.RecordGatewayCall("get", time.Since(start), false)
		return Transaction{}, fmt.Errorf("gateway get transaction: %w", err)
	}
	metrics.RecordGatewayCall("get", time.Since(start), true)
	return tx, nil
}
