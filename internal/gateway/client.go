// Package gateway is an HTTP client for the external payment service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/mmynk/dinnerparty/internal/apperr"
	"github.com/mmynk/dinnerparty/internal/models"
	"github.com/mmynk/dinnerparty/internal/party"
)

var _ party.PaymentGateway = (*Client)(nil)

// Config holds the payment service connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RequestsPerSecond caps calls to the payment service. Zero disables the cap.
	RequestsPerSecond float64
}

// Client talks to the payment service: it obtains a token per payer and then
// submits the payment with it.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

type tokenRequest struct {
	ClientID string `json:"client_id"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type buyerInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type pspInfo struct {
	TransactionID string `json:"transaction_id"`
	Success       bool   `json:"success"`
}

type orderInfo struct {
	Items []string `json:"items"`
}

type paymentOrder struct {
	PaymentOrderID string    `json:"payment_order_id"`
	ClientID       string    `json:"client_id"`
	LocationID     string    `json:"location_id"`
	OrderInfo      orderInfo `json:"order_info"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
}

type paymentRequest struct {
	CheckoutID    string         `json:"checkout_id"`
	BuyerInfo     buyerInfo      `json:"buyer_info"`
	PSP           string         `json:"psp"`
	PSPInfo       pspInfo        `json:"psp_info"`
	PaymentOrders []paymentOrder `json:"payment_orders"`
}

// NewClient creates a payment service client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Authorize obtains an access token for the payer.
func (c *Client) Authorize(ctx context.Context, payerID string) (string, error) {
	headers := map[string]string{"x-mcd-api-key": c.apiKey}

	var tok tokenResponse
	if err := c.post(ctx, "/payments/auth/token", headers, tokenRequest{ClientID: payerID}, &tok); err != nil {
		return "", fmt.Errorf("obtain auth token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("obtain auth token: empty token: %w", apperr.ErrPaymentDeclined)
	}
	return tok.AccessToken, nil
}

// Capture submits the payment using a token from Authorize.
func (c *Client) Capture(ctx context.Context, token string, p *models.PaymentRequest) error {
	body := paymentRequest{
		CheckoutID: p.OrderID,
		BuyerInfo:  buyerInfo{Email: p.UserEmail, Name: p.CardName},
		PSP:        "stripe",
		PSPInfo:    pspInfo{TransactionID: p.OrderID, Success: true},
		PaymentOrders: []paymentOrder{{
			PaymentOrderID: p.OrderID,
			ClientID:       p.UserEmail,
			LocationID:     "MX",
			OrderInfo:      orderInfo{Items: []string{}},
			Amount:         p.PaymentAmount,
			Currency:       "USD",
		}},
	}
	headers := map[string]string{"Authorization": "Bearer " + token}

	if err := c.post(ctx, "/payments", headers, body, nil); err != nil {
		return fmt.Errorf("capture payment: %w", err)
	}
	return nil
}

// post sends body as JSON and expects 201 Created. Transport problems wrap
// apperr.ErrGatewayDown, any other status wraps apperr.ErrPaymentDeclined.
func (c *Client) post(ctx context.Context, path string, headers map[string]string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %v: %w", err, apperr.ErrGatewayDown)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %v: %w", err, apperr.ErrGatewayDown)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusCreated:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %v: %w", err, apperr.ErrGatewayDown)
		}
		return nil
	case resp.StatusCode >= http.StatusInternalServerError:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status: %d, body: %s: %w", resp.StatusCode, string(b), apperr.ErrGatewayDown)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("returned %d, body: %s: %w", resp.StatusCode, string(b), apperr.ErrPaymentDeclined)
	}
}
