// Package gotrue talks to a GoTrue-compatible hosted auth service over
// HTTP.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/johdel/machinery/internal/auth"
)

type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Role string `json:"role"`
	} `json:"user_metadata"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}

type errorResponse struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

// GetSession resolves an access token into a session. Expired or
// unknown tokens map to auth.ErrNoSession.
func (c *Client) GetSession(ctx context.Context, accessToken string) (*auth.Session, error) {
	if accessToken == "" {
		return nil, auth.ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var u userResponse
		if err := json.Unmarshal(body, &u); err != nil {
			return nil, fmt.Errorf("failed to unmarshal auth response: %w", err)
		}
		return &auth.Session{
			UserID:      u.ID,
			Email:       u.Email,
			Role:        u.UserMetadata.Role,
			AccessToken: accessToken,
		}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, auth.ErrNoSession
	default:
		return nil, fmt.Errorf("unexpected auth status %d: %s", resp.StatusCode, string(body))
	}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && (e.Message != "" || e.ErrorDescription != "") {
			return nil, fmt.Errorf("sign-in rejected: %s%s", e.Message, e.ErrorDescription)
		}
		return nil, fmt.Errorf("sign-in rejected with status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token response: %w", err)
	}

	return &auth.Session{
		UserID:      tr.User.ID,
		Email:       tr.User.Email,
		Role:        tr.User.UserMetadata.Role,
		AccessToken: tr.AccessToken,
	}, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sign-out failed with status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("apikey", c.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
}
