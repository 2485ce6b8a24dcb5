// Package rules implements the per-bank field resolver: ordered conditional
// mapping rules that turn a heterogeneous raw statement record into values
// for the canonical schema. All bank-specific behavior lives in the mapping
// data; the evaluator itself has no per-bank branches.
package rules

import (
	"math"
	"strconv"
	"strings"

	"github.com/superbank-dev/superbank/internal/model"
)

// ResolveField resolves one canonical field for a raw transaction using the
// bank's mapping. Resolution tiers, first success wins:
//
//  1. conditions, in order: the first condition whose "then" covers the
//     field and whose predicate matches is authoritative;
//  2. the direct mapping, when it names a raw column present on the row;
//  3. the raw row itself, when it happens to carry the canonical name.
//
// The second result is false when no tier produced a value. A matching
// condition whose field reference points at a missing raw column degrades to
// the next tier rather than failing.
func ResolveField(tx model.RawTransaction, mapping model.BankFieldMapping, field string) (model.FieldValue, bool) {
	if v, ok := resolveByCondition(tx, mapping, field); ok {
		return v, true
	}

	if rawName, ok := mapping.Mapping[field]; ok {
		if v, ok := tx.Field(rawName); ok {
			return v, true
		}
	}

	if v, ok := tx.Field(field); ok {
		return v, true
	}

	return model.FieldValue{}, false
}

func resolveByCondition(tx model.RawTransaction, mapping model.BankFieldMapping, field string) (model.FieldValue, bool) {
	for _, cond := range mapping.Conditions {
		then, covers := cond.Then[field]
		if !covers {
			continue
		}
		if !Matches(tx, cond.If) {
			continue
		}
		// First matching condition is authoritative: resolve it or stop
		// consulting conditions entirely.
		return resolveThen(tx, then)
	}
	return model.FieldValue{}, false
}

func resolveThen(tx model.RawTransaction, then model.ThenValue) (model.FieldValue, bool) {
	switch then.Kind() {
	case model.ThenFieldRef:
		// One level of indirection, never recursive. A dangling reference
		// degrades to the next resolution tier.
		if v, ok := tx.Field(then.Ref()); ok {
			return v, true
		}
		return model.FieldValue{}, false
	default:
		return model.StringField(then.LiteralValue()), true
	}
}

// Matches evaluates a predicate against a transaction. Both sides are
// coerced to trimmed strings; when both additionally parse as finite
// numbers, comparisons use numeric semantics. Otherwise equality operators
// compare strings case-sensitively and ordered operators never match.
// present/not_present test trimmed-string non-emptiness only.
func Matches(tx model.RawTransaction, p model.Predicate) bool {
	raw, _ := tx.Field(p.Field)
	left := strings.TrimSpace(raw.Text())
	right := strings.TrimSpace(p.Value)

	switch p.Op {
	case model.OpPresent:
		return left != ""
	case model.OpNotPresent:
		return left == ""
	}

	ln, lok := parseFinite(left)
	rn, rok := parseFinite(right)
	if lok && rok {
		return compareNumeric(ln, rn, p.Op)
	}

	switch p.Op {
	case model.OpEq:
		return left == right
	case model.OpNe:
		return left != right
	default:
		// Ordered comparison of non-numeric values is undefined; no match.
		return false
	}
}

func compareNumeric(l, r float64, op model.Op) bool {
	switch op {
	case model.OpEq:
		return l == r
	case model.OpNe:
		return l != r
	case model.OpGe:
		return l >= r
	case model.OpLe:
		return l <= r
	case model.OpGt:
		return l > r
	case model.OpLt:
		return l < r
	default:
		return false
	}
}

func parseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
