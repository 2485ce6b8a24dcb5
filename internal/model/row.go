package model

// Well-known canonical column names. The visible column set (the "super
// header") is configurable, but these names have dedicated build behavior.
const (
	ColDate          = "Date"
	ColDescription   = "Description"
	ColAmount        = "Amount"
	ColDrCr          = "Dr./Cr."
	ColBank          = "Bank"
	ColAccountNumber = "Account Number"
	ColTags          = "Tags"
)

// Debit/credit indicator values.
const (
	DrCrCredit = "CR"
	DrCrDebit  = "DR"
)

// CanonicalRow is a transaction normalized into the shared, bank-independent
// column schema. It is derived from a RawTransaction and never persisted as
// a source of truth.
type CanonicalRow struct {
	ID            string
	BankID        string
	AccountID     string
	AccountNumber string
	Bank          string // bank display name

	// Columns holds the formatted display value for every super-header
	// column, aligned with the header for export.
	Columns map[string]string

	// AmountRaw is the parsed absolute amount; always finite, 0 on parse
	// failure. Computation uses this, never the display string.
	AmountRaw float64
	// DrCr is "CR", "DR", or "" when the direction is unknown.
	DrCr string
	// Date is the normalized ISO date (dates.Sentinel when unparsable).
	Date string

	Tags []Tag
}

// Column returns the display value of a column, or "" if absent. Total:
// never panics on unknown names.
func (r CanonicalRow) Column(name string) string {
	return r.Columns[name]
}

// Tagged reports whether the row carries at least one tag.
func (r CanonicalRow) Tagged() bool { return len(r.Tags) > 0 }
