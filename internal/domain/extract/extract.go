// Package extract converts raw document text into typed feature sets
// through ordered regex cascades. Each field tries its patterns in
// order and the first numeric match wins; unresolved fields fall back
// to documented defaults and produce a validation issue, never an
// error. Only unreadable input is rejected.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// minReadableLength is the shortest text accepted as a real document.
const minReadableLength = 50

// amount is the shared numeric capture: thousands groups separated by
// comma or space, optional two-digit decimals.
const amount = `(\d{1,3}(?:[,\s]\d{3})*(?:[.,]\d{2})?)`

// Extract parses text for the given kind. The returned issue list
// records every field that fell back to its default and every
// suspicion the derived features raised. ErrUnreadable is returned for
// input shorter than the readable minimum.
func Extract(text string, kind model.DocumentKind) (model.FeatureSet, []string, error) {
	if len(strings.TrimSpace(text)) < minReadableLength {
		return nil, nil, fmt.Errorf("%w: %d characters", ErrUnreadable, len(strings.TrimSpace(text)))
	}

	switch kind {
	case model.KindCIN:
		return extractCIN(text)
	case model.KindPaySlip:
		return extractPaySlip(text)
	case model.KindTaxDeclaration:
		return extractTax(text)
	case model.KindBankStatement:
		return extractBank(text)
	}
	return nil, nil, fmt.Errorf("%w: %q", model.ErrUnknownKind, kind)
}

// cascade is an ordered list of candidate patterns for one field.
type cascade struct {
	patterns []*regexp.Regexp
	def      float64
}

// find returns the first matching amount and true, or the default and
// false when every pattern misses.
func (c cascade) find(text string) (float64, bool) {
	for _, p := range c.patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		return v, true
	}
	return c.def, false
}

// parseAmount strips thousands separators and parses the remainder.
// Decimal commas are stripped too, matching the permissive upstream
// document formats where "1 234,56" and "1,234.56" both appear.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return strconv.ParseFloat(s, 64)
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// frenchMonths maps French month names to their calendar index.
var frenchMonths = map[string]time.Month{
	"janvier": time.January, "février": time.February, "fevrier": time.February,
	"mars": time.March, "avril": time.April, "mai": time.May,
	"juin": time.June, "juillet": time.July, "août": time.August, "aout": time.August,
	"septembre": time.September, "octobre": time.October,
	"novembre": time.November, "décembre": time.December, "decembre": time.December,
}

// monthsSince returns whole months elapsed from the named French month
// and year up to now, clamped at zero.
func monthsSince(month string, year int, now time.Time) int {
	m, ok := frenchMonths[strings.ToLower(month)]
	if !ok {
		return 0
	}
	months := (now.Year()-year)*12 + int(now.Month()) - int(m)
	if months < 0 {
		return 0
	}
	return months
}
