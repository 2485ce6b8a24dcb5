// Package dates normalizes the date formats found across bank statements to
// ISO (YYYY-MM-DD). Normalization is total: unparsable input maps to an
// epoch sentinel instead of an error.
package dates

import (
	"strings"
	"time"
)

// Sentinel is the normalized value for dates that could not be parsed.
const Sentinel = "1970-01-01"

const isoFormat = "2006-01-02"

// layouts accepted by NormalizeISO, tried in order. Day-first formats with
// one- or two-digit components and two- or four-digit years, matching the
// statements banks actually export.
var layouts = []string{
	isoFormat,
	"2006-1-2",
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2-1-06",
	"02 Jan 2006",
	"2 Jan 2006",
	"02 January 2006",
}

// NormalizeISO parses a tolerant set of date formats and renders the result
// as YYYY-MM-DD. ISO timestamps are truncated to their date part. Returns
// Sentinel when nothing matches.
func NormalizeISO(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sentinel
	}

	// ISO timestamp: keep the date part only.
	if i := strings.IndexAny(s, "T "); i == 10 {
		s = s[:i]
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoFormat)
		}
	}
	return Sentinel
}

// IsSentinel reports whether a normalized date is the unparsable marker.
func IsSentinel(iso string) bool { return iso == Sentinel }
