// Package supabase implements the identity-provider port against the
// Supabase GoTrue REST API. The client is a thin wrapper: one HTTP call per
// operation, no retries, no caching.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tallercharli/accounts-api/internal/core/domain"
)

const defaultTimeout = 15 * time.Second

// Config captures the settings for reaching the Supabase project.
type Config struct {
	// URL is the project base URL, e.g. https://xyz.supabase.co.
	URL string
	// AnonKey is the public (anon) API key sent on every request.
	AnonKey string
	// Timeout bounds each HTTP call. Defaults to defaultTimeout.
	Timeout time.Duration
}

// Client talks to the GoTrue auth endpoints under {URL}/auth/v1. It is safe
// for concurrent use.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.URL + "/auth/v1",
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type signUpResponse struct {
	ID    string        `json:"id"`
	Email string        `json:"email"`
	User  *userResponse `json:"user"`
}

// SignIn exchanges credentials for a session via the password grant.
// Rejected credentials surface as domain.ErrInvalidCredentials.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp sessionResponse
	status, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &resp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, domain.ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("supabase sign-in: unexpected status %d", status)
	}

	return &domain.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// SignUp creates the identity with the provider. Depending on the project's
// email-confirmation setting GoTrue returns either a bare user or a session
// wrapping one; both shapes are handled.
func (c *Client) SignUp(ctx context.Context, email, password string) (*domain.RemoteIdentity, error) {
	body := map[string]string{"email": email, "password": password}

	var resp signUpResponse
	status, err := c.do(ctx, http.MethodPost, "/signup", "", body, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("supabase sign-up: unexpected status %d", status)
	}

	if resp.User != nil {
		return &domain.RemoteIdentity{ID: resp.User.ID, Email: resp.User.Email}, nil
	}
	return &domain.RemoteIdentity{ID: resp.ID, Email: resp.Email}, nil
}

// VerifyToken resolves the identity behind an access token. Any non-OK
// response means the token is invalid or expired.
func (c *Client) VerifyToken(ctx context.Context, accessToken string) (*domain.RemoteIdentity, error) {
	var resp userResponse
	status, err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, domain.ErrInvalidToken
	}
	return &domain.RemoteIdentity{ID: resp.ID, Email: resp.Email}, nil
}

// RefreshSession exchanges a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var resp sessionResponse
	status, err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, domain.ErrInvalidRefreshToken
	}

	return &domain.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

// SignOut revokes the session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	status, err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("supabase sign-out: unexpected status %d", status)
	}
	return nil
}

// do performs one request and decodes a 2xx body into out when provided.
// The HTTP status is returned for the caller to interpret; only transport
// and decode failures produce an error.
func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) (int, error) {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
