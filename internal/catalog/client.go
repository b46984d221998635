package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
	"github.com/mediadiet/mediadiet/internal/validation"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
	userAgent      = "mediadiet/1.0"
)

// ClientOptions configure an HTTPClient.
type ClientOptions struct {
	// Provider names the upstream in errors and logs.
	Provider string
	BaseURL  string
	// HTTP is shared by all clients; its own Timeout is left alone.
	HTTP    *http.Client
	Timeout time.Duration
	// RequestsPerSecond and Burst size the client's limiter.
	RequestsPerSecond float64
	Burst             int
	// Query is merged into every request (e.g. an API key).
	Query     url.Values
	Validator *validation.Validator
	Logger    *slog.Logger
}

// HTTPClient is a rate-limited JSON client that maps transport failures onto
// the domain error taxonomy and validates decoded bodies.
type HTTPClient struct {
	provider string
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	limiter  *rate.Limiter
	query    url.Values
	validate *validation.Validator
	logger   *slog.Logger
}

// NewHTTPClient creates a client from opts, filling defaults.
func NewHTTPClient(opts ClientOptions) *HTTPClient {
	if opts.HTTP == nil {
		opts.HTTP = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	if opts.Validator == nil {
		opts.Validator = validation.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &HTTPClient{
		provider: opts.Provider,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     opts.HTTP,
		timeout:  opts.Timeout,
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		query:    opts.Query,
		validate: opts.Validator,
		logger:   opts.Logger,
	}
}

// GetJSON fetches baseURL+path, decodes the body into out and validates it.
//
// Errors: NOT_FOUND for 404, UPSTREAM for other non-2xx or transport
// failures, UPSTREAM_TIMEOUT past the client timeout, VALIDATION when the
// body does not decode or fails its struct tags.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		// Wait refuses up front when the next token lands past the deadline.
		if !errors.Is(err, context.Canceled) {
			return domainerrors.UpstreamTimeout(err, c.provider+": rate limit wait timed out")
		}
		return c.transportError(ctx, "rate limit wait", err)
	}

	q := url.Values{}
	for k, v := range c.query {
		q[k] = v
	}
	for k, v := range query {
		q[k] = v
	}
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "%s: build request", c.provider)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, "request", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("catalog request",
		"provider", c.provider,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return c.transportError(ctx, "read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domainerrors.NotFoundf("%s: %s not found", c.provider, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domainerrors.Upstream(
			fmt.Errorf("status %d", resp.StatusCode),
			c.provider+": unexpected response",
		)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeValidation, "%s: malformed response", c.provider)
	}
	if err := c.validate.ValidateUpstream(out); err != nil {
		c.logger.Warn("catalog response failed validation", "provider", c.provider, "path", path, "error", err)
		return err
	}
	return nil
}

func (c *HTTPClient) transportError(ctx context.Context, op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return domainerrors.UpstreamTimeout(err, c.provider+": "+op+" timed out")
	}
	return domainerrors.Upstream(err, c.provider+": "+op+" failed")
}
