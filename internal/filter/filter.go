// Package filter applies composable criteria to canonical rows. Criteria
// combine with AND, except tag filters, which OR across the selected tags: a
// row passes if it carries any of them. The pipeline is pure and preserves
// row order.
package filter

import (
	"strings"

	"github.com/superbank-dev/superbank/internal/dates"
	"github.com/superbank-dev/superbank/internal/model"
)

// SearchAll selects search across every scalar column and tag name.
const SearchAll = "all"

// Criteria is a pure value object describing one filter pass. The zero
// value matches everything.
type Criteria struct {
	// Search is a case-insensitive substring; SearchField names one column
	// or SearchAll (empty means SearchAll).
	Search      string
	SearchField string

	// DateFrom/DateTo bound the row's date column, inclusive, as ISO
	// strings. Rows with unparsable dates are excluded while a bound is set.
	DateFrom string
	DateTo   string

	// Exact matches against resolved display values.
	Bank    string
	Account string
	DrCr    string

	// TagFilters OR across tag names; TaggedOnly/UntaggedOnly are mutually
	// exclusive toggles on the presence of tags.
	TagFilters   []string
	TaggedOnly   bool
	UntaggedOnly bool
}

// IsZero reports whether the criteria restrict nothing.
func (c Criteria) IsZero() bool {
	return c.Search == "" && c.DateFrom == "" && c.DateTo == "" &&
		c.Bank == "" && c.Account == "" && c.DrCr == "" &&
		len(c.TagFilters) == 0 && !c.TaggedOnly && !c.UntaggedOnly
}

// Apply returns the rows matching the criteria, in their original order.
func Apply(rows []model.CanonicalRow, c Criteria) []model.CanonicalRow {
	if c.IsZero() {
		out := make([]model.CanonicalRow, len(rows))
		copy(out, rows)
		return out
	}
	out := make([]model.CanonicalRow, 0, len(rows))
	for _, r := range rows {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match evaluates every criterion against one row. All criteria commute, so
// the check order is just the cheapest-first convenience.
func (c Criteria) Match(r model.CanonicalRow) bool {
	if c.TaggedOnly && !r.Tagged() {
		return false
	}
	if c.UntaggedOnly && r.Tagged() {
		return false
	}
	if c.Bank != "" && r.Bank != c.Bank {
		return false
	}
	if c.Account != "" && r.AccountNumber != c.Account && r.AccountID != c.Account {
		return false
	}
	if c.DrCr != "" && r.DrCr != c.DrCr {
		return false
	}
	if !c.matchDateRange(r) {
		return false
	}
	if !c.matchTagFilters(r) {
		return false
	}
	return c.matchSearch(r)
}

func (c Criteria) matchDateRange(r model.CanonicalRow) bool {
	if c.DateFrom == "" && c.DateTo == "" {
		return true
	}
	if dates.IsSentinel(r.Date) || r.Date == "" {
		return false
	}
	// Lexicographic comparison is valid: both sides are zero-padded ISO.
	if c.DateFrom != "" && r.Date < c.DateFrom {
		return false
	}
	if c.DateTo != "" && r.Date > c.DateTo {
		return false
	}
	return true
}

func (c Criteria) matchTagFilters(r model.CanonicalRow) bool {
	if len(c.TagFilters) == 0 {
		return true
	}
	for _, want := range c.TagFilters {
		for _, tag := range r.Tags {
			if strings.EqualFold(tag.Name, want) {
				return true
			}
		}
	}
	return false
}

func (c Criteria) matchSearch(r model.CanonicalRow) bool {
	if c.Search == "" {
		return true
	}
	q := strings.ToLower(c.Search)

	field := c.SearchField
	if field == "" {
		field = SearchAll
	}
	if field != SearchAll {
		return strings.Contains(strings.ToLower(r.Column(field)), q)
	}

	for _, v := range r.Columns {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	for _, scalar := range []string{r.ID, r.Bank, r.AccountNumber, r.DrCr} {
		if strings.Contains(strings.ToLower(scalar), q) {
			return true
		}
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag.Name), q) {
			return true
		}
	}
	return false
}
