package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superbank-dev/superbank/internal/logger"
	"github.com/superbank-dev/superbank/internal/model"
)

func collect(t *testing.T, c *Client, userID string) ([]model.RawTransaction, error) {
	t.Helper()
	txc, errc := c.Stream(context.Background(), userID)
	var out []model.RawTransaction
	for tx := range txc {
		out = append(out, tx)
	}
	return out, <-errc
}

func TestStream(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/u-1/transactions", r.URL.Path)
		require.Equal(t, "application/x-ndjson", r.Header.Get("Accept"))
		w.Write([]byte(`{"id":"tx-1","bankId":"hdfc","Amount":"1,234.50"}
{"id":"tx-2","bankId":"sbi"}
`))
	}))

	txs, err := collect(t, c, "u-1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "tx-1", txs[0].ID)
	assert.Equal(t, "hdfc", txs[0].BankID)

	v, ok := txs[0].Field("Amount")
	require.True(t, ok)
	assert.Equal(t, "1,234.50", v.Text())
}

// Malformed lines, blank lines, records without IDs, and duplicate IDs are
// all skipped without aborting the stream.
func TestStream_SkipsBadRecords(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"tx-1"}
not json at all

{"bankId":"no-id-here"}
{"id":"tx-1"}
{"id":"tx-2"}
`))
	}))

	txs, err := collect(t, c, "u-1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "tx-1", txs[0].ID)
	assert.Equal(t, "tx-2", txs[1].ID)
}

// A dropped feed is retried; records already delivered are not re-emitted on
// the resumed attempt.
func TestStream_RetryDeduplicates(t *testing.T) {
	var hits atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"tx-1"}
{"id":"tx-2"}
`))
	}))

	txs, err := collect(t, c, "u-1")
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, int32(2), hits.Load())
}

func TestStream_ExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.Nop(), Options{MaxRetries: 1, RetryDelay: time.Millisecond})
	txs, err := collect(t, c, "u-1")
	assert.Empty(t, txs)

	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestStream_Cancellation(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"tx-1"}` + "\n"))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	txc, errc := c.Stream(ctx, "u-1")
	for range txc {
	}
	err := <-errc
	require.Error(t, err)
	assert.True(t, IsCancellation(err))
}
