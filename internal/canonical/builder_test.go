package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superbank-dev/superbank/internal/dates"
	"github.com/superbank-dev/superbank/internal/model"
)

var hdfcMapping = model.BankFieldMapping{
	Header:  []string{"Date", "Description", "Amount", "Dr./Cr."},
	Mapping: map[string]string{"Date": "Txn Date", "Amount": "Transaction Amount", "Dr./Cr.": "Type"},
}

func TestBuild_CreditRow(t *testing.T) {
	b := NewBuilder(nil, map[string]string{"hdfc": "HDFC Bank"})

	tx := model.RawTransaction{
		ID:        "tx-1",
		BankID:    "hdfc",
		AccountID: "acc-9",
		Fields: map[string]model.FieldValue{
			"Txn Date":           model.StringField("15/01/2023"),
			"Narration":          model.StringField("Salary credit"),
			"Transaction Amount": model.StringField("1,234.50"),
			"Type":               model.StringField("Credit"),
			"Account Number":     model.StringField("XX1234"),
			"tags":               model.TagsField([]model.Tag{{ID: "t1", Name: "salary"}, {ID: "t2", Name: "monthly"}}),
		},
	}

	row := b.Build(tx, hdfcMapping)

	assert.Equal(t, "2023-01-15", row.Date)
	assert.Equal(t, "2023-01-15", row.Column(model.ColDate))
	assert.Equal(t, "Salary credit", row.Column(model.ColDescription))
	assert.Equal(t, 1234.5, row.AmountRaw)
	assert.Equal(t, "1,234.50", row.Column(model.ColAmount))
	assert.Equal(t, model.DrCrCredit, row.DrCr)
	assert.Equal(t, "HDFC Bank", row.Column(model.ColBank))
	assert.Equal(t, "XX1234", row.Column(model.ColAccountNumber))
	assert.Equal(t, "salary; monthly", row.Column(model.ColTags))
}

// Negative amounts normalize to their absolute value; direction is carried
// by the Dr./Cr. indicator alone.
func TestBuild_NegativeDebit(t *testing.T) {
	b := NewBuilder(nil, nil)

	tx := model.RawTransaction{
		ID:     "tx-2",
		BankID: "icici",
		Fields: map[string]model.FieldValue{
			"Transaction Amount": model.StringField("-500"),
			"Type":               model.StringField("Debit"),
		},
	}

	row := b.Build(tx, hdfcMapping)

	assert.Equal(t, float64(500), row.AmountRaw)
	assert.Equal(t, "500.00", row.Column(model.ColAmount))
	assert.Equal(t, model.DrCrDebit, row.DrCr)
	assert.Equal(t, "icici", row.Bank, "unknown bank IDs pass through as the display name")
}

func TestBuild_MalformedDegrades(t *testing.T) {
	b := NewBuilder(nil, nil)

	tx := model.RawTransaction{
		ID:     "tx-3",
		BankID: "hdfc",
		Fields: map[string]model.FieldValue{
			"Txn Date":           model.StringField("not a date"),
			"Transaction Amount": model.StringField("N/A"),
			"Type":               model.StringField("???"),
		},
	}

	row := b.Build(tx, hdfcMapping)

	assert.Equal(t, dates.Sentinel, row.Date)
	assert.Equal(t, float64(0), row.AmountRaw)
	assert.Equal(t, "0.00", row.Column(model.ColAmount))
	assert.Equal(t, "", row.DrCr)
	assert.Equal(t, "", row.Column(model.ColDescription))
}

func TestBuild_NoMapping_IdentityFallback(t *testing.T) {
	b := NewBuilder(nil, nil)

	tx := model.RawTransaction{
		ID:     "tx-4",
		BankID: "unknown-bank",
		Fields: map[string]model.FieldValue{
			"Date":        model.StringField("2023-06-01"),
			"Description": model.StringField("ATM withdrawal"),
			"Amount":      model.NumberField(200),
			"Dr./Cr.":     model.StringField("dr."),
		},
	}

	row := b.Build(tx, model.BankFieldMapping{})

	assert.Equal(t, "2023-06-01", row.Date)
	assert.Equal(t, "ATM withdrawal", row.Column(model.ColDescription))
	assert.Equal(t, float64(200), row.AmountRaw)
	assert.Equal(t, model.DrCrDebit, row.DrCr)
}

func TestBuild_ConditionalMapping(t *testing.T) {
	// Split-column bank: direction and amount both derive from which of the
	// deposit/withdrawal columns is populated.
	mapping := model.BankFieldMapping{
		Conditions: []model.Condition{
			{
				If: model.Predicate{Field: "Deposit Amt.", Op: model.OpPresent},
				Then: map[string]model.ThenValue{
					"Amount":  model.FieldRef("Deposit Amt."),
					"Dr./Cr.": model.Literal("CR"),
				},
			},
			{
				If: model.Predicate{Field: "Withdrawal Amt.", Op: model.OpPresent},
				Then: map[string]model.ThenValue{
					"Amount":  model.FieldRef("Withdrawal Amt."),
					"Dr./Cr.": model.Literal("DR"),
				},
			},
		},
	}

	b := NewBuilder(nil, nil)
	row := b.Build(model.RawTransaction{
		ID:     "tx-5",
		BankID: "sbi",
		Fields: map[string]model.FieldValue{
			"Withdrawal Amt.": model.StringField("2,000.00"),
		},
	}, mapping)

	assert.Equal(t, float64(2000), row.AmountRaw)
	assert.Equal(t, model.DrCrDebit, row.DrCr)
}

func TestBuild_AccountNumberFallsBackToAccountID(t *testing.T) {
	b := NewBuilder(nil, nil)
	row := b.Build(model.RawTransaction{
		ID:        "tx-6",
		AccountID: "acc-42",
		Fields:    map[string]model.FieldValue{},
	}, model.BankFieldMapping{})

	assert.Equal(t, "acc-42", row.Column(model.ColAccountNumber))
}

func TestBuildAll_OnePerTransaction(t *testing.T) {
	b := NewBuilder(nil, nil)
	txs := []model.RawTransaction{
		{ID: "a", BankID: "hdfc", Fields: map[string]model.FieldValue{}},
		{ID: "b", BankID: "sbi", Fields: map[string]model.FieldValue{}},
	}

	rows := b.BuildAll(txs, map[string]model.BankFieldMapping{"hdfc": hdfcMapping})
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)
	assert.Equal(t, "b", rows[1].ID)
}

func TestNormalizeDrCr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"CR", "CR"},
		{"cr.", "CR"},
		{"Credit", "CR"},
		{"C", "CR"},
		{"DR", "DR"},
		{"dr.", "DR"},
		{"DEBIT", "DR"},
		{"d", "DR"},
		{" cr ", "CR"},
		{"", ""},
		{"transfer", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDrCr(tt.input), "input %q", tt.input)
	}
}
