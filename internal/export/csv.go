// Package export renders canonical rows for the CSV export collaborator.
// The contract: header and row columns align one to one, and every cell is
// the pre-formatted display string, never a raw numeric.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/superbank-dev/superbank/internal/model"
)

// WriteRows writes the header and one aligned record per canonical row.
func WriteRows(w io.Writer, header []string, rows []model.CanonicalRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(header, row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts a canonical row to a CSV record aligned with header.
// Missing columns render empty; Column is total, so this never fails.
func MarshalRow(header []string, row model.CanonicalRow) []string {
	record := make([]string, len(header))
	for i, col := range header {
		record[i] = row.Column(col)
	}
	return record
}
