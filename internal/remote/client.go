// Package remote is the HTTP client for the grocery list backend.
//
// Every endpoint answers with an Envelope. The client never hands an envelope
// to callers: a call either returns its payload or a coded error
// (errors.CodeNetwork for transport failures and timeouts, errors.CodeRemote or
// errors.CodeUnauthorized for application errors reported by the server).
package remote

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
	"github.com/grocerylistapp/grocerylist/internal/ratelimit"
)

const (
	// DefaultTimeout bounds every request, including the liveness probe.
	DefaultTimeout = 10 * time.Second

	defaultRPS   = 5.0
	defaultBurst = 10

	userAgent = "grocerylist/1.0"
)

// Source supplies the per-request endpoint and bearer token.
// Both are read on every call so login, logout and base URL edits apply immediately.
type Source interface {
	BaseURL(ctx context.Context) (string, error)
	// Token returns "" when no session exists.
	Token(ctx context.Context) (string, error)
}

// Options tunes the client.
type Options struct {
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client is a rate-limited client for the remote grocery list API.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	source  Source
	logger  *slog.Logger
}

// New creates a client. Zero option fields take defaults.
func New(source Source, opts Options, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RPS <= 0 {
		opts.RPS = defaultRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: ratelimit.New(opts.RPS, opts.Burst),
		source:  source,
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// request is one call to the remote API.
type request struct {
	method string
	path   string
	body   any
}

// response is the raw outcome of a request that reached the server.
type response struct {
	status int
	body   []byte
}

// do executes a request with rate limiting, the bearer token and the timeout.
// Transport failures come back as CodeNetwork errors.
func (c *Client) do(ctx context.Context, r request) (*response, error) {
	base, err := c.source.BaseURL(ctx)
	if err != nil {
		return nil, err
	}
	endpoint, err := url.JoinPath(base, r.path)
	if err != nil {
		return nil, domainerrors.Validation(fmt.Sprintf("invalid base url %q", base))
	}
	host := hostOf(endpoint)

	if err := c.limiter.Wait(ctx, host); err != nil {
		return nil, domainerrors.Network(err, "rate limit wait")
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", r.path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	token, err := c.source.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("remote request", "method", r.method, "path", r.path, "host", host)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(r.path, err)
	}

	return &response{status: resp.StatusCode, body: data}, nil
}

// transportError classifies a failed round trip.
func transportError(path string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domainerrors.Network(err, path+" timed out")
	}
	return domainerrors.Network(err, path+" request failed")
}

func hostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	return u.Host
}

// messageStatuses are the statuses whose body carries a human-readable message.
var messageStatuses = map[int]bool{
	http.StatusBadRequest:          true,
	http.StatusUnauthorized:        true,
	http.StatusNotFound:            true,
	http.StatusConflict:            true,
	http.StatusInternalServerError: true,
	http.StatusServiceUnavailable:  true,
}

// statusError builds the error for a non-success HTTP status, surfacing the
// server's message when it sent one.
func statusError(status int, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = fmt.Sprintf("server answered %d %s", status, http.StatusText(status))
	}
	details := map[string]int{"status": status}
	if status == http.StatusUnauthorized {
		return domainerrors.Unauthorized(message).WithDetails(details)
	}
	return domainerrors.Remote(message).WithDetails(details)
}

// bodyMessage extracts a display message from a body that is not an envelope.
func bodyMessage(status int, body []byte) string {
	if messageStatuses[status] {
		return string(body)
	}
	return ""
}
