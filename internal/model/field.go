package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FieldKind classifies the value held by a FieldValue.
type FieldKind int

const (
	FieldEmpty FieldKind = iota
	FieldString
	FieldNumber
	FieldTags
)

// FieldValue is one cell of a raw bank statement record. Banks disagree on
// types as much as on column names, so a cell is a string, a number, or a
// tag list. The zero value is the empty cell.
type FieldValue struct {
	kind FieldKind
	str  string
	num  float64
	tags []Tag
}

// StringField returns a string-valued cell.
func StringField(s string) FieldValue {
	return FieldValue{kind: FieldString, str: s}
}

// NumberField returns a number-valued cell.
func NumberField(f float64) FieldValue {
	return FieldValue{kind: FieldNumber, num: f}
}

// TagsField returns a tag-list cell.
func TagsField(tags []Tag) FieldValue {
	return FieldValue{kind: FieldTags, tags: tags}
}

// Kind returns the cell's kind.
func (v FieldValue) Kind() FieldKind { return v.kind }

// Text coerces the cell to a string. Numbers render without trailing zeros;
// tag lists and empty cells render as "".
func (v FieldValue) Text() string {
	switch v.kind {
	case FieldString:
		return v.str
	case FieldNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Number returns the numeric value and whether the cell holds one directly.
func (v FieldValue) Number() (float64, bool) {
	if v.kind == FieldNumber {
		return v.num, true
	}
	return 0, false
}

// Tags returns the tag list, or nil for non-tag cells.
func (v FieldValue) Tags() []Tag { return v.tags }

// IsEmpty reports whether the cell carries no usable value.
func (v FieldValue) IsEmpty() bool {
	switch v.kind {
	case FieldString:
		return strings.TrimSpace(v.str) == ""
	case FieldNumber:
		return false
	case FieldTags:
		return len(v.tags) == 0
	default:
		return true
	}
}

// UnmarshalJSON accepts a string, a number, a tag array, or null.
// Anything else decodes as the empty cell; a bad cell must not sink the row.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = FieldValue{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringField(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = NumberField(f)
		return nil
	}

	var tags []Tag
	if err := json.Unmarshal(data, &tags); err == nil {
		*v = TagsField(tags)
		return nil
	}

	*v = FieldValue{}
	return nil
}

// MarshalJSON renders the cell in the same shape UnmarshalJSON accepts.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case FieldString:
		return json.Marshal(v.str)
	case FieldNumber:
		return json.Marshal(v.num)
	case FieldTags:
		return json.Marshal(v.tags)
	default:
		return []byte("null"), nil
	}
}
