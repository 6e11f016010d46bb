package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cipherhaven/internal/models"
)

// IdentityClient talks to the identity provider's backend API.
type IdentityClient struct {
	BaseURL   string
	SecretKey string
	HTTP      *http.Client
}

func NewIdentityClient(baseURL, secretKey string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		SecretKey: secretKey,
		HTTP:      &http.Client{Timeout: timeout},
	}
}

// CreateAccount starts a sign-up with username, email, password and unsafe metadata.
func (c *IdentityClient) CreateAccount(ctx context.Context, params models.CreateAccountParams) (*models.SignUpAttempt, error) {
	var out models.SignUpAttempt
	if err := c.do(ctx, http.MethodPost, "/sign_ups", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PrepareEmailVerification asks the provider to e-mail a verification code.
func (c *IdentityClient) PrepareEmailVerification(ctx context.Context, signUpID string) error {
	body := map[string]string{"strategy": models.VerificationStrategyEmail}
	return c.do(ctx, http.MethodPost, "/sign_ups/"+url.PathEscape(signUpID)+"/prepare_verification", body, nil)
}

func (c *IdentityClient) AttemptEmailVerification(ctx context.Context, signUpID, code string) (*models.SignUpAttempt, error) {
	body := map[string]string{"strategy": models.VerificationStrategyEmail, "code": code}
	var out models.SignUpAttempt
	if err := c.do(ctx, http.MethodPost, "/sign_ups/"+url.PathEscape(signUpID)+"/attempt_verification", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *IdentityClient) ActivateSession(ctx context.Context, sessionID string) (*models.Session, error) {
	var out models.Session
	if err := c.do(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/activate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserMetadata merges metadata into the user's unsafe metadata.
func (c *IdentityClient) UpdateUserMetadata(ctx context.Context, userID string, metadata map[string]any) error {
	body := map[string]any{"unsafe_metadata": metadata}
	return c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID)+"/metadata", body, nil)
}

func (c *IdentityClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("identity: marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.SecretKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("identity: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("identity: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		perr := &models.ProviderErrors{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, perr); jsonErr == nil && len(perr.Errors) > 0 {
			return perr
		}
		return fmt.Errorf("identity: %s %s returned status %d", method, path, resp.StatusCode)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("identity: parse response: %w", err)
	}
	return nil
}
