package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/superbank-dev/superbank/internal/model"
)

// maxLineBytes bounds one NDJSON record; statements with huge rows are a
// data bug, not a reason to buffer unbounded memory.
const maxLineBytes = 1 << 20

// Stream implements TransactionSource over the feed endpoint, which emits
// newline-delimited JSON records. The producer goroutine pushes one
// transaction at a time so the consumer can render progressively; a dropped
// connection is retried a bounded number of times with records already seen
// deduplicated by ID, and cancellation aborts without retry.
func (c *Client) Stream(ctx context.Context, userID string) (<-chan model.RawTransaction, <-chan error) {
	txc := make(chan model.RawTransaction)
	errc := make(chan error, 1)

	go func() {
		defer close(txc)
		errc <- c.stream(ctx, userID, txc)
		close(errc)
	}()

	return txc, errc
}

func (c *Client) stream(ctx context.Context, userID string, txc chan<- model.RawTransaction) error {
	seen := make(map[string]bool)
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn().Str("user", userID).Int("attempt", attempt).Err(lastErr).
				Msg("transaction stream dropped, retrying")
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		lastErr = c.streamOnce(ctx, userID, txc, seen)
		if lastErr == nil {
			return nil
		}
		if IsCancellation(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) streamOnce(ctx context.Context, userID string, txc chan<- model.RawTransaction, seen map[string]bool) error {
	path := fmt.Sprintf("/users/%s/transactions", userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("building stream request: %w", err)
	}
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: "GET " + path, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var tx model.RawTransaction
		if err := json.Unmarshal([]byte(line), &tx); err != nil {
			// Item-level errors are non-fatal: log and keep streaming.
			c.log.Warn().Str("user", userID).Err(err).Msg("skipping malformed transaction record")
			continue
		}
		if tx.ID == "" {
			c.log.Warn().Str("user", userID).Msg("skipping transaction record without id")
			continue
		}
		if seen[tx.ID] {
			continue
		}
		seen[tx.ID] = true

		select {
		case txc <- tx:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Op: "GET " + path, Err: err}
	}
	return nil
}
