package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"alquilar.backend/internal/config"
	"alquilar.backend/internal/domain/entities"
	domainerrors "alquilar.backend/internal/domain/errors"
)

// Client talks to the external card processing gateway. Charges against the
// internal account balance never reach this client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a gateway client from configuration
func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// ChargeRequest describes a single capture attempt
type ChargeRequest struct {
	Amount        decimal.Decimal            `json:"amount"`
	Currency      string                     `json:"currency"`
	Method        entities.PaymentMethodKind `json:"method"`
	Reference     string                     `json:"reference"`
	CustomerEmail string                     `json:"customerEmail"`
	Description   string                     `json:"description,omitempty"`
}

type chargeResponse struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	Reason        string `json:"reason"`
}

// Charge captures funds through the gateway and returns its transaction ID.
// A decline comes back as ErrPaymentDeclined so callers can distinguish it
// from transport failures.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	var resp chargeResponse
	if err := c.post(ctx, "/v1/charges", req, &resp); err != nil {
		return "", err
	}

	switch resp.Status {
	case "succeeded":
		return resp.TransactionID, nil
	case "declined":
		if resp.Reason != "" {
			return "", fmt.Errorf("%s: %w", resp.Reason, domainerrors.ErrPaymentDeclined)
		}
		return "", domainerrors.ErrPaymentDeclined
	default:
		return "", fmt.Errorf("gateway returned unexpected status %q", resp.Status)
	}
}

// Refund returns previously captured funds
func (c *Client) Refund(ctx context.Context, transactionID string, amount decimal.Decimal) error {
	body := map[string]interface{}{
		"transactionId": transactionID,
		"amount":        amount,
	}
	var resp chargeResponse
	if err := c.post(ctx, "/v1/refunds", body, &resp); err != nil {
		return err
	}
	if resp.Status != "succeeded" {
		return fmt.Errorf("gateway refund failed with status %q", resp.Status)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(raw))
	}
	return json.Unmarshal(raw, out)
}
