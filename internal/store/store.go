// Package store defines the contracts to the engine's external
// collaborators (the transaction feed, the bank-mapping store, the tag
// store, and the bulk update sink) and provides a REST client implementing
// all four. The engine itself only ever sees the interfaces.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/superbank-dev/superbank/internal/model"
)

// TransactionSource is an incremental feed of raw transactions for a user.
// The transaction channel is closed when the feed completes; the error
// channel then yields exactly one value, nil on success. Errors on
// individual items are logged by the source, not propagated. Cancelling the
// context aborts the stream and surfaces the context error unretried.
type TransactionSource interface {
	Stream(ctx context.Context, userID string) (<-chan model.RawTransaction, <-chan error)
}

// MappingStore is the read-only per-bank mapping lookup, fetched once and
// cached for the session.
type MappingStore interface {
	Mappings(ctx context.Context) (map[string]model.BankFieldMapping, error)
	BankNames(ctx context.Context) (map[string]string, error)
}

// TagStore is CRUD over the shared tag vocabulary. Create surfaces
// ErrDuplicateTag when a case-insensitive name collision exists; callers
// resolve the conflict by reusing the existing tag rather than erroring.
type TagStore interface {
	List(ctx context.Context) ([]model.Tag, error)
	Create(ctx context.Context, name, color string) (model.Tag, error)
	Update(ctx context.Context, tag model.Tag) (model.Tag, error)
	Delete(ctx context.Context, id string) error
}

// BulkUpdateSink accepts one batched tag update and reports per-transaction
// successes and failures.
type BulkUpdateSink interface {
	BulkUpdate(ctx context.Context, items []model.BulkTagItem) (model.BulkTagResult, error)
}

// ErrDuplicateTag signals a case-insensitive tag name collision. Recoverable:
// resolve to the existing tag.
var ErrDuplicateTag = errors.New("tag name already exists")

// TransportError wraps a genuine transport failure, as distinct from
// cancellation. Only transport errors are subject to automatic retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsCancellation reports whether err stems from the caller aborting the
// operation rather than the transport failing.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
