package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured     = errors.New("ai configuration is disabled or incomplete")
	ErrUnknownProvider   = errors.New("unknown ai provider")
	ErrMissingProductID  = errors.New("missing product id for infomaniak")
	ErrEmptyDescription  = errors.New("no description generated")
	maxResponseBodyBytes = int64(1 << 20)
)

// StatusError is returned when the vendor answers with a non-2xx status.
type StatusError struct {
	Label      string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: %d", e.Label, e.StatusCode)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points a provider at another endpoint.
func WithBaseURL(provider, baseURL string) Option {
	return func(c *Client) { c.baseURLs[provider] = baseURL }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client sends generation requests to the configured vendor.
type Client struct {
	http     *http.Client
	baseURLs map[string]string
	logger   *zap.Logger
}

func NewClient(logger *zap.Logger, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURLs: map[string]string{},
		logger:   logger.Named("ai"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate returns an image description for text.
func (c *Client) Generate(ctx context.Context, cfg Config, text string) (string, error) {
	if cfg.APIToken == "" {
		return "", ErrNotConfigured
	}
	p, ok := Lookup(cfg.Provider)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
	base := c.baseURLs[p.Name()]
	if base == "" {
		base = p.DefaultBaseURL()
	}

	req, err := p.BuildRequest(ctx, base, cfg, NewPrompt(text))
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("vendor returned an error",
			zap.String("provider", p.Name()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)))
		return "", &StatusError{Label: p.Label(), StatusCode: resp.StatusCode}
	}

	desc := strings.TrimSpace(p.ParseResponse(body))
	if desc == "" {
		return "", ErrEmptyDescription
	}
	c.logger.Debug("generated image description",
		zap.String("provider", p.Name()),
		zap.Duration("elapsed", time.Since(start)))
	return desc, nil
}
