// Package amount parses and formats monetary amounts. Parsing is total:
// malformed input yields 0, never an error, so one bad statement row cannot
// abort processing of the rest.
package amount

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/superbank-dev/superbank/internal/model"
)

// Parse extracts a numeric amount from a raw statement cell. Numbers pass
// through unchanged; strings are trimmed, stripped of thousands separators,
// and parsed as floating point (scientific notation included). Empty cells,
// tag lists, and unparsable strings yield 0.
func Parse(v model.FieldValue) float64 {
	if n, ok := v.Number(); ok {
		return sanitize(n)
	}
	return ParseString(v.Text())
}

// ParseString parses a locale-formatted or scientific-notation amount
// string. Returns 0 on failure.
func ParseString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return sanitize(f)
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Format renders an amount for display with exactly two fraction digits and
// comma thousands grouping. Display only: computation always uses the
// numeric value.
func Format(f float64) string {
	fixed := decimal.NewFromFloat(sanitize(f)).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	grouped := groupThousands(intPart)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(grouped)
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
