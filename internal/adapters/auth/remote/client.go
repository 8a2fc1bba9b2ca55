// Package remote verifica tokens contra un servicio IAM externo por HTTP.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-care-manager/internal/platform/httpclient"
	"pet-care-manager/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("remote auth not configured")
	ErrUnauthorized  = errors.New("remote auth unauthorized")
	ErrUpstream      = errors.New("remote auth upstream error")
)

// VerifyPath es el endpoint de verificación del IAM.
const VerifyPath = "/v1/tokens/verify"

// Config del cliente. BaseURL y APIKey vienen de config/env.
type Config struct {
	BaseURL string
	APIKey  string

	// Header de la API key. Default "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	key := strings.TrimSpace(cfg.APIKey)
	if base == "" || key == "" {
		return nil, ErrNotConfigured
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	header := http.Header{}
	header.Set(h, key)
	hc, err := httpclient.New(httpclient.Config{BaseURL: base, Timeout: timeout, Header: header})
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

type verifyResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"type"`
	Role   string `json:"role"`
}

// VerifyToken manda el token en el body y en Authorization.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	var out verifyResponse
	bearer := http.Header{}
	bearer.Set("Authorization", "Bearer "+token)
	err := c.http.PostJSON(ctx, VerifyPath, bearer, map[string]string{"token": token}, &out)
	switch {
	case errors.Is(err, httpclient.ErrUnauthorized):
		return auth.Claims{}, ErrUnauthorized
	case err != nil:
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if out.UserID <= 0 {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrUpstream)
	}
	typ, ok := auth.ParseUserType(out.Type)
	if !ok {
		return auth.Claims{}, fmt.Errorf("%w: unknown user type %q", ErrUnauthorized, out.Type)
	}
	role := strings.TrimSpace(out.Role)
	if role == "" {
		role = "user"
	}
	return auth.Claims{
		UserID: out.UserID,
		Email:  strings.TrimSpace(out.Email),
		Type:   typ,
		Role:   role,
	}, nil
}
