package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Op is a condition operator.
type Op string

const (
	OpPresent    Op = "present"
	OpNotPresent Op = "not_present"
	OpEq         Op = "=="
	OpNe         Op = "!="
	OpGe         Op = ">="
	OpLe         Op = "<="
	OpGt         Op = ">"
	OpLt         Op = "<"
)

// Predicate tests one raw column of a transaction.
type Predicate struct {
	Field string `json:"field" yaml:"field"`
	Op    Op     `json:"op" yaml:"op"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// ThenKind distinguishes the two shapes a condition result can take.
type ThenKind int

const (
	ThenLiteral ThenKind = iota
	ThenFieldRef
)

// ThenValue is the value a matching condition assigns to a canonical field:
// either a literal, or a reference to another raw column (one level of
// indirection, never recursive).
type ThenValue struct {
	kind    ThenKind
	literal string
	ref     string
}

// Literal returns a ThenValue holding a fixed string.
func Literal(s string) ThenValue { return ThenValue{kind: ThenLiteral, literal: s} }

// FieldRef returns a ThenValue referring to the named raw column.
func FieldRef(name string) ThenValue { return ThenValue{kind: ThenFieldRef, ref: name} }

// Kind returns the variant held.
func (t ThenValue) Kind() ThenKind { return t.kind }

// LiteralValue returns the literal string (empty for field references).
func (t ThenValue) LiteralValue() string { return t.literal }

// Ref returns the referenced raw column name (empty for literals).
func (t ThenValue) Ref() string { return t.ref }

// thenWire is the explicit field-reference shape on the wire.
type thenWire struct {
	FromField string `json:"fromField" yaml:"fromField"`
}

// UnmarshalJSON accepts either a bare scalar (literal) or
// {"fromField": "..."} (field reference).
func (t *ThenValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Literal(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*t = Literal(NumberField(f).Text())
		return nil
	}
	var w thenWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("condition value: %w", err)
	}
	if w.FromField == "" {
		return fmt.Errorf("condition value: fromField must not be empty")
	}
	*t = FieldRef(w.FromField)
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON.
func (t ThenValue) MarshalJSON() ([]byte, error) {
	if t.kind == ThenFieldRef {
		return json.Marshal(thenWire{FromField: t.ref})
	}
	return json.Marshal(t.literal)
}

// UnmarshalYAML mirrors UnmarshalJSON for mapping fixtures.
func (t *ThenValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*t = Literal(node.Value)
		return nil
	}
	var w thenWire
	if err := node.Decode(&w); err != nil {
		return fmt.Errorf("condition value: %w", err)
	}
	if w.FromField == "" {
		return fmt.Errorf("condition value: fromField must not be empty")
	}
	*t = FieldRef(w.FromField)
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (t ThenValue) MarshalYAML() (any, error) {
	if t.kind == ThenFieldRef {
		return thenWire{FromField: t.ref}, nil
	}
	return t.literal, nil
}

// Condition is one per-bank mapping rule: when If matches a transaction,
// each canonical field named in Then resolves to the associated value.
// Conditions are ordered; for a given field the first match wins.
type Condition struct {
	If   Predicate            `json:"if" yaml:"if"`
	Then map[string]ThenValue `json:"then" yaml:"then"`
}

// BankFieldMapping describes how one bank's statement layout maps onto the
// canonical schema. All bank-specific logic lives here, in data, not in code.
type BankFieldMapping struct {
	// Header lists the canonical columns this bank populates.
	Header []string `json:"header" yaml:"header"`
	// Mapping maps canonical field -> raw column name.
	Mapping map[string]string `json:"mapping" yaml:"mapping"`
	// Conditions are evaluated in order; first match per field wins.
	Conditions []Condition `json:"conditions" yaml:"conditions"`
}
