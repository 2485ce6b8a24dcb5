package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/superbank-dev/superbank/internal/model"
)

// Defaults for the retry policy: small and fixed, per the ingestion
// contract. Retries apply to transport failures only, never to cancellation.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
	defaultTimeout    = 30 * time.Second
)

// Options tune a Client. Zero fields take the defaults above.
type Options struct {
	HTTPClient *http.Client
	MaxRetries int
	RetryDelay time.Duration
}

// Client talks to the backing REST services. One Client implements
// TransactionSource, MappingStore, TagStore, and BulkUpdateSink.
//
// The client is built for the engine's single-writer session model and does
// not synchronize its session cache for concurrent use.
type Client struct {
	baseURL    string
	httpc      *http.Client
	maxRetries int
	retryDelay time.Duration
	log        zerolog.Logger

	// Session cache for the read-only bank mapping store.
	banks map[string]bankWire
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, log zerolog.Logger, opts Options) *Client {
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	retryDelay := opts.RetryDelay
	if retryDelay == 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpc:      httpc,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		log:        log,
	}
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// doJSON performs one request with a JSON body and decodes a JSON response
// into out (which may be nil). Transport and HTTP-level failures come back
// as *TransportError; conflict responses surface ErrDuplicateTag.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return ErrDuplicateTag
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// getJSONRetry is doJSON with the bounded fixed-delay retry loop applied.
// Cancellation is returned immediately and never retried.
func (c *Client) getJSONRetry(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn().Str("path", path).Int("attempt", attempt).Err(lastErr).
				Msg("retrying request")
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		lastErr = c.doJSON(ctx, http.MethodGet, path, nil, out)
		if lastErr == nil {
			return nil
		}
		if IsCancellation(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// bankWire is the bank-mapping store's per-bank payload.
type bankWire struct {
	DisplayName string `json:"displayName"`
	model.BankFieldMapping
}

// fetchBanks loads and caches the bank mapping payload once per session.
func (c *Client) fetchBanks(ctx context.Context) (map[string]bankWire, error) {
	if c.banks != nil {
		return c.banks, nil
	}
	var banks map[string]bankWire
	if err := c.getJSONRetry(ctx, "/banks", &banks); err != nil {
		return nil, err
	}
	c.banks = banks
	return banks, nil
}

// Mappings implements MappingStore.
func (c *Client) Mappings(ctx context.Context) (map[string]model.BankFieldMapping, error) {
	banks, err := c.fetchBanks(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.BankFieldMapping, len(banks))
	for id, b := range banks {
		out[id] = b.BankFieldMapping
	}
	return out, nil
}

// BankNames implements MappingStore.
func (c *Client) BankNames(ctx context.Context) (map[string]string, error) {
	banks, err := c.fetchBanks(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(banks))
	for id, b := range banks {
		name := b.DisplayName
		if name == "" {
			name = id
		}
		out[id] = name
	}
	return out, nil
}
