package govukpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	errors "github.com/orderhub/order-management/internal"
)

// Payment is the gateway's representation of a payment session.
type Payment struct {
	PaymentID   string       `json:"payment_id"`
	State       PaymentState `json:"state"`
	Amount      int64        `json:"amount"`
	Email       string       `json:"email"`
	CreatedDate string       `json:"created_date"`
	CardDetails *CardDetails `json:"card_details"`
}

type PaymentState struct {
	Status   string `json:"status"`
	Finished bool   `json:"finished"`
}

type CardDetails struct {
	LastDigitsCardNumber string         `json:"last_digits_card_number"`
	CardholderName       string         `json:"cardholder_name"`
	ExpiryDate           string         `json:"expiry_date"`
	CardBrand            string         `json:"card_brand"`
	BillingAddress       BillingAddress `json:"billing_address"`
}

type BillingAddress struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	Postcode string `json:"postcode"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// ReceivedOn returns the date part of the gateway's creation timestamp,
// which is what Payment records store as received_on.
func (p *Payment) ReceivedOn() (time.Time, error) {
	created, err := time.Parse(time.RFC3339, p.CreatedDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_date %q: %w", p.CreatedDate, err)
	}
	year, month, day := created.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

type Config struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

// Client talks to the GOV.UK Pay API. It is always constructor-injected so
// tests can substitute a stub server; there is no package-level instance.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type CreatePaymentRequest struct {
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	ReturnURL   string `json:"return_url"`
}

// CreatePayment opens a new payment on the gateway and returns its
// authoritative representation, including the gateway-assigned payment id.
func (c *Client) CreatePayment(ctx context.Context, createReq CreatePaymentRequest) (*Payment, error) {
	url := fmt.Sprintf("%s/v1/payments", c.baseURL)

	payload, err := json.Marshal(createReq)
	if err != nil {
		return nil, errors.NewGatewayError("failed to marshal gateway request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewGatewayError("failed to build gateway request", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway create failed", "reference", createReq.Reference, "error", err)
		return nil, errors.NewGatewayError("gateway create request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewGatewayError("failed to read gateway response", err)
	}

	if resp.StatusCode != http.StatusCreated {
		c.logger.Error("gateway create returned error status",
			"reference", createReq.Reference,
			"status", resp.StatusCode,
			"response", string(body))
		return nil, errors.NewGatewayError(
			fmt.Sprintf("gateway create returned status %d", resp.StatusCode), nil)
	}

	var payment Payment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, errors.NewGatewayError("malformed gateway response", err)
	}

	return &payment, nil
}

// GetPayment fetches the authoritative state of a payment from the gateway.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewGatewayError("failed to build gateway request", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway request failed", "payment_id", paymentID, "error", err)
		return nil, errors.NewGatewayError("gateway request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewGatewayError("failed to read gateway response", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gateway returned error status",
			"payment_id", paymentID,
			"status", resp.StatusCode,
			"response", string(body))
		return nil, errors.NewGatewayError(
			fmt.Sprintf("gateway returned status %d", resp.StatusCode), nil)
	}

	var payment Payment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, errors.NewGatewayError("malformed gateway response", err)
	}

	return &payment, nil
}

// CancelPayment asks the gateway to cancel a payment. The gateway signals
// acknowledgement with an empty 204 response; anything else is an error.
func (c *Client) CancelPayment(ctx context.Context, paymentID string) error {
	url := fmt.Sprintf("%s/v1/payments/%s/cancel", c.baseURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return errors.NewGatewayError("failed to build gateway request", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway cancel failed", "payment_id", paymentID, "error", err)
		return errors.NewGatewayError("gateway cancel request failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		c.logger.Error("gateway cancel returned error status",
			"payment_id", paymentID,
			"status", resp.StatusCode)
		return errors.NewGatewayError(
			fmt.Sprintf("gateway cancel returned status %d", resp.StatusCode), nil)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
