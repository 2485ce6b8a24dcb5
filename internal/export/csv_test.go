package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superbank-dev/superbank/internal/model"
)

var testHeader = []string{"Date", "Description", "Amount", "Tags"}

func TestWriteRows(t *testing.T) {
	rows := []model.CanonicalRow{
		{ID: "tx-1", Columns: map[string]string{
			"Date": "2023-01-15", "Description": "Salary credit", "Amount": "1,234.50", "Tags": "salary",
		}},
		{ID: "tx-2", Columns: map[string]string{
			"Date": "2023-02-20", "Amount": "500.00",
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, testHeader, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, testHeader, records[0])
	assert.Equal(t, []string{"2023-01-15", "Salary credit", "1,234.50", "salary"}, records[1])
	assert.Equal(t, []string{"2023-02-20", "", "500.00", ""}, records[2], "missing columns render empty")
}

func TestWriteRows_EmptySetStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, testHeader, nil))
	assert.Equal(t, "Date,Description,Amount,Tags\n", buf.String())
}

func TestWriteRows_QuotesEmbeddedCommas(t *testing.T) {
	rows := []model.CanonicalRow{
		{Columns: map[string]string{"Description": "Transfer, internal", "Amount": "1,234.50"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, testHeader, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"Transfer, internal"`)
	assert.Contains(t, lines[1], `"1,234.50"`)
}

func TestMarshalRow(t *testing.T) {
	row := model.CanonicalRow{Columns: map[string]string{"Amount": "42.00"}}
	assert.Equal(t, []string{"", "", "42.00", ""}, MarshalRow(testHeader, row))
}
