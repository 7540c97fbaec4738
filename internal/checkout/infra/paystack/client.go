// Package paystack is the hosted payment collaborator. The widget
// itself runs in the shopper's browser; this client only initializes
// transactions and verifies their terminal state server-side.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/johdel/machinery/internal/checkout/domain"
)

type Client struct {
	baseURL    string
	secretKey  string
	publicKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey, publicKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		publicKey: publicKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type initializeRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

// Initialize registers the payment attempt with the provider and
// returns the session handed to the browser widget.
func (c *Client) Initialize(ctx context.Context, req domain.PaymentRequest) (domain.PaymentSession, error) {
	payload, err := json.Marshal(initializeRequest{
		Email:     req.Email,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Reference: req.Reference,
		Metadata:  req.Metadata,
	})
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return domain.PaymentSession{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("failed to call payment provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("failed to read provider response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.PaymentSession{}, fmt.Errorf("provider rejected initialization: status %d: %s", resp.StatusCode, string(body))
	}

	var ir initializeResponse
	if err := json.Unmarshal(body, &ir); err != nil {
		return domain.PaymentSession{}, fmt.Errorf("failed to unmarshal provider response: %w", err)
	}
	if !ir.Status {
		return domain.PaymentSession{}, fmt.Errorf("provider rejected initialization: %s", ir.Message)
	}

	return domain.PaymentSession{
		AuthorizationURL: ir.Data.AuthorizationURL,
		AccessCode:       ir.Data.AccessCode,
		Reference:        ir.Data.Reference,
		PublicKey:        c.publicKey,
	}, nil
}

// Verify confirms a transaction's terminal state with the provider.
// Success callbacks are never trusted without this check.
func (c *Client) Verify(ctx context.Context, reference string) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("failed to call payment provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read provider response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verification failed: status %d: %s", resp.StatusCode, string(body))
	}

	var vr verifyResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return false, fmt.Errorf("failed to unmarshal provider response: %w", err)
	}
	return vr.Status && vr.Data.Status == "success", nil
}
