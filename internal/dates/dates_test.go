package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeISO(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already ISO", "2023-01-15", "2023-01-15"},
		{"ISO unpadded", "2023-1-5", "2023-01-05"},
		{"ISO timestamp", "2023-01-15T10:30:00Z", "2023-01-15"},
		{"ISO with time after space", "2023-01-15 10:30:00", "2023-01-15"},
		{"day first slashes", "15/1/2023", "2023-01-15"},
		{"day first padded", "05/01/2023", "2023-01-05"},
		{"two digit year", "15/1/23", "2023-01-15"},
		{"day first dashes", "15-1-2023", "2023-01-15"},
		{"dashes two digit year", "15-1-23", "2023-01-15"},
		{"month name", "02 Jan 2023", "2023-01-02"},
		{"month name unpadded", "2 Jan 2023", "2023-01-02"},
		{"full month name", "02 January 2023", "2023-01-02"},
		{"whitespace trimmed", "  2023-01-15  ", "2023-01-15"},
		{"empty", "", Sentinel},
		{"garbage", "not a date", Sentinel},
		{"impossible day", "32/1/2023", Sentinel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeISO(tt.input))
		})
	}
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel(NormalizeISO("garbage")))
	assert.False(t, IsSentinel(NormalizeISO("2023-06-01")))
}
