// Package httpclient es el cliente JSON de los adapters que hablan con
// servicios externos (hoy el IAM de auth remoto).
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"pet-care-manager/internal/platform/logger"
)

const DefaultTimeout = 10 * time.Second

// maxBody acota lo que se lee de una respuesta.
const maxBody = 1 << 20

// Clasificación de fallas del upstream. StatusError matchea una u otra con
// errors.Is; los errores de red y de decode envuelven ErrUpstream.
var (
	ErrUnauthorized = errors.New("upstream rejected credentials")
	ErrUpstream     = errors.New("upstream error")
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Header se manda en cada request (p.ej. la API key del servicio).
	Header http.Header
}

type Client struct {
	http   *http.Client
	base   *url.URL
	header http.Header
}

func New(cfg Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("httpclient: invalid base url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		base:   base,
		header: cfg.Header.Clone(),
	}, nil
}

// StatusError es una respuesta no-2xx.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream status %d", e.Status)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// Is: 401 y 403 son ErrUnauthorized; cualquier otro status es ErrUpstream.
func (e *StatusError) Is(target error) bool {
	denied := e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	switch target {
	case ErrUnauthorized:
		return denied
	case ErrUpstream:
		return !denied
	}
	return false
}

// PostJSON manda in como JSON a path (relativo a BaseURL) y decodifica la
// respuesta en out. El request_id del request entrante viaja al upstream.
func (c *Client) PostJSON(ctx context.Context, path string, header http.Header, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("httpclient: marshal: %w", err)
	}
	target := c.base.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if id := chimw.GetReqID(ctx); id != "" {
		req.Header.Set(chimw.RequestIDHeader, id)
	}
	for k, vs := range c.header {
		req.Header[k] = vs
	}
	for k, vs := range header {
		req.Header[k] = vs
	}

	log := logger.FromContext(ctx).With(logger.Fields{"upstream": target.Host, "path": target.Path})
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("upstream request failed", logger.Fields{"err": err})
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		log.Warn("upstream non-2xx", logger.Fields{
			"status":      resp.StatusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return se
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}
