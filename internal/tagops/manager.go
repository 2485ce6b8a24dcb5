// Package tagops implements the bulk tag workflow: match a target set,
// apply or remove a tag across it in one batched update, and retry exactly
// the failed subset on demand. Successes merge straight into the in-memory
// transaction set; failures are retained per transaction with their reason.
package tagops

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/superbank-dev/superbank/internal/model"
	"github.com/superbank-dev/superbank/internal/store"
)

// State is the lifecycle position of one bulk action.
type State string

const (
	StateIdle            State = "idle"
	StateMatching        State = "matching"
	StateApplying        State = "applying"
	StateCompleted       State = "completed"
	StatePartiallyFailed State = "partially_failed"
	StateRetrying        State = "retrying"
)

// Mode selects between adding and removing the selected tags.
type Mode string

const (
	ModeApply  Mode = "apply"
	ModeRemove Mode = "remove"
)

// Manager drives one bulk tag operation at a time. Callers serialize bulk
// operations by not beginning a new one before the previous completes;
// overlapping operations are last-write-wins by policy.
type Manager struct {
	sink      store.BulkUpdateSink
	txs       *model.Collection
	bankNames map[string]string
	log       zerolog.Logger

	state   State
	opID    string
	mode    Mode
	tags    []model.Tag
	targets []string
	failed  []model.BulkFailure
}

// NewManager creates a Manager over the given sink and in-memory
// transaction set. bankNames maps bank ID to display name and may be nil.
func NewManager(sink store.BulkUpdateSink, txs *model.Collection, bankNames map[string]string, log zerolog.Logger) *Manager {
	return &Manager{
		sink:      sink,
		txs:       txs,
		bankNames: bankNames,
		log:       log,
		state:     StateIdle,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State { return m.state }

// OperationID returns the ID of the current operation, empty while idle.
func (m *Manager) OperationID() string { return m.opID }

// Failures returns the retained per-transaction failures of the last
// submission.
func (m *Manager) Failures() []model.BulkFailure { return m.failed }

// Begin computes the target transaction set before anything is mutated, so
// the caller can preview it. Targets come from an explicit ID set or, when
// ids is empty, from a free-text substring match across all non-tag scalar
// fields. Returns the matched transactions.
func (m *Manager) Begin(mode Mode, tags []model.Tag, ids []string, match string) ([]model.RawTransaction, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("bulk tag operation requires at least one tag")
	}
	if len(ids) == 0 && strings.TrimSpace(match) == "" {
		return nil, fmt.Errorf("bulk tag operation requires target ids or a match query")
	}

	var matched []model.RawTransaction
	if len(ids) > 0 {
		for _, id := range ids {
			if tx, ok := m.txs.Get(id); ok {
				matched = append(matched, tx)
			}
		}
	} else {
		q := strings.ToLower(strings.TrimSpace(match))
		for _, tx := range m.txs.All() {
			if matchesQuery(tx, q) {
				matched = append(matched, tx)
			}
		}
	}

	m.state = StateMatching
	m.opID = uuid.NewString()
	m.mode = mode
	m.tags = tags
	m.failed = nil
	m.targets = make([]string, 0, len(matched))
	for _, tx := range matched {
		m.targets = append(m.targets, tx.ID)
	}
	return matched, nil
}

// Apply submits the matched set as one bulk request and blocks until the
// aggregate result returns. Successes are merged into the transaction set
// immediately; failures are retained for Retry.
func (m *Manager) Apply(ctx context.Context) (model.BulkTagResult, error) {
	if m.state != StateMatching {
		return model.BulkTagResult{}, fmt.Errorf("apply requires a matched target set (state %s)", m.state)
	}
	m.state = StateApplying
	return m.submit(ctx, m.targets)
}

// Retry re-submits exactly the previously failed subset with the same tag
// selection. It is a first-class operation over the recorded failure set,
// not a re-derivation of the original match. Retries are unbounded in count
// but each one is an explicit caller action.
func (m *Manager) Retry(ctx context.Context) (model.BulkTagResult, error) {
	if m.state != StatePartiallyFailed {
		return model.BulkTagResult{}, fmt.Errorf("retry requires a partially failed operation (state %s)", m.state)
	}
	ids := make([]string, 0, len(m.failed))
	for _, f := range m.failed {
		ids = append(ids, f.ID)
	}
	m.state = StateRetrying
	return m.submit(ctx, ids)
}

func (m *Manager) submit(ctx context.Context, ids []string) (model.BulkTagResult, error) {
	prev := m.state

	items := make([]model.BulkTagItem, 0, len(ids))
	newTags := make(map[string][]model.Tag, len(ids))
	var localFailures []model.BulkFailure

	for _, id := range ids {
		tx, ok := m.txs.Get(id)
		if !ok {
			localFailures = append(localFailures, model.BulkFailure{ID: id, Error: "unknown transaction"})
			continue
		}
		var tags []model.Tag
		if m.mode == ModeRemove {
			tags = model.RemoveTags(tx.Tags(), m.tags...)
		} else {
			tags = model.MergeTags(tx.Tags(), m.tags...)
		}
		newTags[id] = tags
		items = append(items, model.BulkTagItem{
			TransactionID: id,
			TagIDs:        tagIDs(tags),
			BankName:      m.bankName(tx.BankID),
		})
	}

	result, err := m.sink.BulkUpdate(ctx, items)
	if err != nil {
		if store.IsCancellation(err) {
			// Aborted, not failed: leave the operation where it was.
			m.state = prev
			return model.BulkTagResult{}, err
		}
		// The whole batch failed in transport; every target is retryable.
		m.failed = append(localFailures, batchFailures(items, err)...)
		m.state = StatePartiallyFailed
		m.log.Error().Str("op", m.opID).Err(err).Int("failed", len(m.failed)).
			Msg("bulk tag update failed")
		return model.BulkTagResult{Successful: 0, Failed: m.failed}, nil
	}

	failedIDs := make(map[string]bool, len(result.Failed))
	for _, f := range result.Failed {
		failedIDs[f.ID] = true
	}

	successful := 0
	for _, item := range items {
		if failedIDs[item.TransactionID] {
			continue
		}
		// Merge without a re-fetch: the submitted list is the new truth.
		m.txs.ReplaceTags(item.TransactionID, newTags[item.TransactionID])
		successful++
	}

	m.failed = append(localFailures, result.Failed...)
	if len(m.failed) == 0 {
		m.state = StateCompleted
	} else {
		m.state = StatePartiallyFailed
	}

	m.log.Info().Str("op", m.opID).Str("mode", string(m.mode)).
		Int("succeeded", successful).Int("failed", len(m.failed)).
		Msgf("%d succeeded, %d failed", successful, len(m.failed))

	return model.BulkTagResult{Successful: successful, Failed: m.failed}, nil
}

func (m *Manager) bankName(bankID string) string {
	if name, ok := m.bankNames[bankID]; ok && name != "" {
		return name
	}
	return bankID
}

func tagIDs(tags []model.Tag) []string {
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func batchFailures(items []model.BulkTagItem, err error) []model.BulkFailure {
	out := make([]model.BulkFailure, len(items))
	for i, item := range items {
		out[i] = model.BulkFailure{ID: item.TransactionID, Error: err.Error()}
	}
	return out
}

// matchesQuery reports whether any non-tag scalar field of the transaction
// contains the query substring, case-insensitively.
func matchesQuery(tx model.RawTransaction, q string) bool {
	if q == "" {
		return false
	}
	for _, v := range tx.Fields {
		if v.Kind() == model.FieldTags {
			continue
		}
		if strings.Contains(strings.ToLower(v.Text()), q) {
			return true
		}
	}
	return false
}
