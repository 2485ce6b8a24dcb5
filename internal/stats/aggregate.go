// Package stats rolls canonical rows up into per-bank, per-account, or
// per-tag totals. Accumulation uses decimals rounded to two places after
// every addition so thousands of rows cannot drift.
package stats

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/superbank-dev/superbank/internal/amount"
	"github.com/superbank-dev/superbank/internal/model"
)

// GroupBy selects the aggregation key.
type GroupBy string

const (
	GroupByBank    GroupBy = "bank"
	GroupByAccount GroupBy = "account"
	GroupByTag     GroupBy = "tag"
)

// Stat is one aggregation bucket.
type Stat struct {
	Label             string
	TotalTransactions int
	TotalAmount       decimal.Decimal
	TotalCredit       decimal.Decimal
	TotalDebit        decimal.Decimal
	Tagged            int
	Untagged          int
}

// Balance is always derived on read, never stored, so it cannot drift from
// the credit and debit totals.
func (s Stat) Balance() decimal.Decimal {
	return s.TotalCredit.Sub(s.TotalDebit)
}

// Column names probed when a row carries no single signed amount. Some bank
// formats split the amount into separate deposit and withdrawal columns.
var (
	depositColumns    = []string{"Deposit Amt.", "Deposit Amt", "Deposit", "Credit Amount", "Credit"}
	withdrawalColumns = []string{"Withdrawal Amt.", "Withdrawal Amt", "Withdrawal", "Debit Amount", "Debit"}
)

// Aggregate computes grouped totals over a row set. For tag grouping a row
// with N tags contributes to N buckets; the multi-counting matches the OR
// semantics of tag filtering. Rows without tags contribute to no tag bucket.
func Aggregate(rows []model.CanonicalRow, groupBy GroupBy) map[string]Stat {
	out := make(map[string]Stat)
	for _, row := range rows {
		for _, label := range bucketLabels(row, groupBy) {
			stat, ok := out[label]
			if !ok {
				stat = Stat{Label: label}
			}
			accumulate(&stat, row)
			out[label] = stat
		}
	}
	return out
}

func bucketLabels(row model.CanonicalRow, groupBy GroupBy) []string {
	switch groupBy {
	case GroupByAccount:
		return []string{fmt.Sprintf("%s / %s", row.Bank, row.AccountNumber)}
	case GroupByTag:
		return model.TagNames(row.Tags)
	default:
		return []string{row.Bank}
	}
}

func accumulate(stat *Stat, row model.CanonicalRow) {
	amt, drCr := rowAmount(row)

	stat.TotalTransactions++
	stat.TotalAmount = stat.TotalAmount.Add(amt).Round(2)
	switch drCr {
	case model.DrCrCredit:
		stat.TotalCredit = stat.TotalCredit.Add(amt).Round(2)
	case model.DrCrDebit:
		stat.TotalDebit = stat.TotalDebit.Add(amt).Round(2)
	}
	if row.Tagged() {
		stat.Tagged++
	} else {
		stat.Untagged++
	}
}

// rowAmount returns the row's absolute amount and direction. A zero
// AmountRaw falls back to the split deposit/withdrawal columns: a positive
// deposit counts as credit, a positive withdrawal as debit.
func rowAmount(row model.CanonicalRow) (decimal.Decimal, string) {
	if row.AmountRaw != 0 {
		return decimal.NewFromFloat(row.AmountRaw).Abs(), row.DrCr
	}
	if v := probeColumns(row, depositColumns); v > 0 {
		return decimal.NewFromFloat(v), model.DrCrCredit
	}
	if v := probeColumns(row, withdrawalColumns); v > 0 {
		return decimal.NewFromFloat(v), model.DrCrDebit
	}
	return decimal.Zero, row.DrCr
}

func probeColumns(row model.CanonicalRow, names []string) float64 {
	for _, name := range names {
		if v := amount.ParseString(row.Column(name)); v != 0 {
			return v
		}
	}
	return 0
}
