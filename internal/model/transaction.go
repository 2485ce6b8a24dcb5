package model

import (
	"encoding/json"
	"strings"
)

// RawTransaction is one statement row as the backing store holds it: fixed
// identity fields plus an open, bank-specific column map. Immutable once
// ingested except for its tag list.
type RawTransaction struct {
	ID          string
	BankID      string
	AccountID   string
	StatementID string
	Fields      map[string]FieldValue
}

// defaultTagField is the column name used when a transaction has no tag-ish
// column yet and tags must be written to it.
const defaultTagField = "tags"

// Field returns the named raw column. The second result reports presence;
// a missing column yields the empty cell, never a panic.
func (t RawTransaction) Field(name string) (FieldValue, bool) {
	v, ok := t.Fields[name]
	return v, ok
}

// TagFieldName returns the name of the column holding the tag list: the
// first column whose name contains "tag" (case-insensitive), or "tags" if
// none exists yet.
func (t RawTransaction) TagFieldName() string {
	for name, v := range t.Fields {
		if strings.Contains(strings.ToLower(name), "tag") && v.Kind() == FieldTags {
			return name
		}
	}
	for name := range t.Fields {
		if strings.Contains(strings.ToLower(name), "tag") {
			return name
		}
	}
	return defaultTagField
}

// Tags returns the transaction's tag list, or nil.
func (t RawTransaction) Tags() []Tag {
	v, ok := t.Fields[t.TagFieldName()]
	if !ok {
		return nil
	}
	return v.Tags()
}

// WithTags returns a copy of the transaction with its tag list replaced.
// The original is not modified.
func (t RawTransaction) WithTags(tags []Tag) RawTransaction {
	fields := make(map[string]FieldValue, len(t.Fields)+1)
	for k, v := range t.Fields {
		fields[k] = v
	}
	fields[t.TagFieldName()] = TagsField(tags)
	t.Fields = fields
	return t
}

// Reserved identity keys on the wire; everything else lands in Fields.
const (
	keyID          = "id"
	keyBankID      = "bankId"
	keyAccountID   = "accountId"
	keyStatementID = "statementId"
)

// UnmarshalJSON splits a wire record into identity fields and the open
// column map.
func (t *RawTransaction) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	take := func(key string) string {
		msg, ok := raw[key]
		if !ok {
			return ""
		}
		delete(raw, key)
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return ""
		}
		return s
	}

	t.ID = take(keyID)
	t.BankID = take(keyBankID)
	t.AccountID = take(keyAccountID)
	t.StatementID = take(keyStatementID)

	t.Fields = make(map[string]FieldValue, len(raw))
	for name, msg := range raw {
		var v FieldValue
		// FieldValue.UnmarshalJSON never fails; unknown shapes become empty.
		_ = v.UnmarshalJSON(msg)
		t.Fields[name] = v
	}
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON.
func (t RawTransaction) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Fields)+4)
	for name, v := range t.Fields {
		out[name] = v
	}
	out[keyID] = t.ID
	out[keyBankID] = t.BankID
	out[keyAccountID] = t.AccountID
	out[keyStatementID] = t.StatementID
	return json.Marshal(out)
}
