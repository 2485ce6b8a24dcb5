// Package canonical builds canonical rows: raw bank transactions normalized
// into the shared "Super Bank" column schema. Building is total over
// arbitrary malformed input; missing data degrades to empty or zero values
// so one bad row never aborts the rest.
package canonical

import (
	"math"
	"strings"

	"github.com/superbank-dev/superbank/internal/amount"
	"github.com/superbank-dev/superbank/internal/dates"
	"github.com/superbank-dev/superbank/internal/model"
	"github.com/superbank-dev/superbank/internal/rules"
)

// DefaultHeader is the canonical column set shown when no configuration
// overrides it.
var DefaultHeader = []string{
	model.ColDate,
	model.ColDescription,
	model.ColAmount,
	model.ColDrCr,
	model.ColBank,
	model.ColAccountNumber,
	model.ColTags,
}

// descriptionAliases is probed in order for Description-like columns, across
// mapped and raw field names.
var descriptionAliases = []string{
	"Description",
	"Narration",
	"Particulars",
	"Reference",
	"Transaction Details",
	"Details",
	"Remarks",
}

// accountNumberAliases is probed for the best-effort account number stamp.
var accountNumberAliases = []string{
	"Account Number",
	"Account No.",
	"Account No",
	"A/C No.",
	"AccountNumber",
}

// Builder turns raw transactions into canonical rows for a configured super
// header.
type Builder struct {
	header    []string
	bankNames map[string]string
}

// NewBuilder creates a Builder. A nil header selects DefaultHeader;
// bankNames maps bank ID to display name and may be nil.
func NewBuilder(header []string, bankNames map[string]string) *Builder {
	if len(header) == 0 {
		header = DefaultHeader
	}
	return &Builder{header: header, bankNames: bankNames}
}

// Header returns the super header the builder populates.
func (b *Builder) Header() []string { return b.header }

// BuildAll builds one canonical row per transaction, resolving each bank's
// mapping from the given set. Banks without a mapping still produce rows via
// the identity fallback tier.
func (b *Builder) BuildAll(txs []model.RawTransaction, mappings map[string]model.BankFieldMapping) []model.CanonicalRow {
	rows := make([]model.CanonicalRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, b.Build(tx, mappings[tx.BankID]))
	}
	return rows
}

// Build builds the canonical row for one transaction. It never fails.
func (b *Builder) Build(tx model.RawTransaction, mapping model.BankFieldMapping) model.CanonicalRow {
	row := model.CanonicalRow{
		ID:        tx.ID,
		BankID:    tx.BankID,
		AccountID: tx.AccountID,
		Bank:      b.bankName(tx.BankID),
		Columns:   make(map[string]string, len(b.header)),
		Date:      dates.Sentinel,
		Tags:      tx.Tags(),
	}
	row.AccountNumber = resolveAccountNumber(tx, mapping)
	row.DrCr = resolveDrCr(tx, mapping)

	for _, col := range b.header {
		switch {
		case strings.EqualFold(col, model.ColTags):
			row.Columns[col] = strings.Join(model.TagNames(row.Tags), "; ")

		case strings.Contains(strings.ToLower(col), "date"):
			v, _ := rules.ResolveField(tx, mapping, col)
			iso := dates.NormalizeISO(v.Text())
			row.Columns[col] = iso
			if row.Date == dates.Sentinel {
				row.Date = iso
			}

		case strings.EqualFold(col, model.ColAmount):
			v, _ := rules.ResolveField(tx, mapping, model.ColAmount)
			row.AmountRaw = math.Abs(amount.Parse(v))
			row.Columns[col] = amount.Format(row.AmountRaw)

		case strings.EqualFold(col, model.ColDescription):
			row.Columns[col] = resolveDescription(tx, mapping)

		case strings.EqualFold(col, model.ColBank):
			row.Columns[col] = row.Bank

		case strings.EqualFold(col, model.ColAccountNumber):
			row.Columns[col] = row.AccountNumber

		case strings.EqualFold(col, model.ColDrCr):
			row.Columns[col] = row.DrCr

		default:
			v, _ := rules.ResolveField(tx, mapping, col)
			row.Columns[col] = strings.TrimSpace(v.Text())
		}
	}
	return row
}

func (b *Builder) bankName(bankID string) string {
	if name, ok := b.bankNames[bankID]; ok && name != "" {
		return name
	}
	return bankID
}

func resolveDescription(tx model.RawTransaction, mapping model.BankFieldMapping) string {
	for _, alias := range descriptionAliases {
		if v, ok := rules.ResolveField(tx, mapping, alias); ok {
			if s := strings.TrimSpace(v.Text()); s != "" {
				return s
			}
		}
	}
	return ""
}

func resolveAccountNumber(tx model.RawTransaction, mapping model.BankFieldMapping) string {
	for _, alias := range accountNumberAliases {
		if v, ok := rules.ResolveField(tx, mapping, alias); ok {
			if s := strings.TrimSpace(v.Text()); s != "" {
				return s
			}
		}
	}
	return tx.AccountID
}

func resolveDrCr(tx model.RawTransaction, mapping model.BankFieldMapping) string {
	v, _ := rules.ResolveField(tx, mapping, model.ColDrCr)
	return NormalizeDrCr(v.Text())
}

// NormalizeDrCr maps the many spellings banks use for the debit/credit
// indicator ("CR", "Cr.", "credit", "D", ...) onto "CR", "DR", or "".
func NormalizeDrCr(s string) string {
	t := strings.ToUpper(strings.TrimSpace(s))
	t = strings.TrimRight(t, ".")
	switch t {
	case "CR", "C", "CREDIT":
		return model.DrCrCredit
	case "DR", "D", "DEBIT":
		return model.DrCrDebit
	default:
		return ""
	}
}
