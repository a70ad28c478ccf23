package extract

import (
	"regexp"
	"time"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// CIN defaults. Image-level features cannot be judged from text alone;
// they default optimistically and leave a validation issue behind.
const (
	defaultImageQuality = 0.8
	cinFieldCount       = 4.0
)

var (
	cinNumberPattern = regexp.MustCompile(`\b([A-Z]{1,2}\d{5,6})\b`)
	cinNamePattern   = regexp.MustCompile(`(?i)(?:Nom|Prénom).*?[:]\s*\S`)
	cinBirthPattern  = regexp.MustCompile(`(?i)(?:Né[e]?\s+le|Naissance).*?(\d{2}[./-]\d{2}[./-]\d{4})`)
	cinExpiryPattern = regexp.MustCompile(`(?i)(?:Valable\s+jusqu.au|Expire|Validité).*?(\d{2}[./-]\d{2}[./-]\d{4})`)

	cinDateLayouts = []string{"02/01/2006", "02.01.2006", "02-01-2006"}
)

func parseCINDate(s string) (time.Time, bool) {
	for _, layout := range cinDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func extractCIN(text string) (model.FeatureSet, []string, error) {
	var issues []string

	numberMatch := cinNumberPattern.FindStringSubmatch(text)
	nameFound := cinNamePattern.MatchString(text)
	birthFound := cinBirthPattern.MatchString(text)

	isExpired := false
	expiryFound := false
	if m := cinExpiryPattern.FindStringSubmatch(text); m != nil {
		if t, ok := parseCINDate(m[1]); ok {
			isExpired = t.Before(time.Now())
			expiryFound = true
		}
	}
	if !expiryFound {
		issues = append(issues, "expiry date not found")
	}
	if numberMatch == nil {
		issues = append(issues, "CIN number not found")
	}
	if !nameFound {
		issues = append(issues, "holder name not found")
	}
	if !birthFound {
		issues = append(issues, "birth date not found")
	}
	if isExpired {
		issues = append(issues, "identity card is expired")
	}

	// Text-level confidence proxy: the fraction of expected fields
	// recovered from the extracted text.
	found := 0.0
	for _, ok := range []bool{numberMatch != nil, nameFound, birthFound, expiryFound} {
		if ok {
			found++
		}
	}
	confidence := found / cinFieldCount

	issues = append(issues, "image quality not assessable from text")

	fs := model.CINFeatures{
		IsExpired:     isExpired,
		OCRConfidence: confidence,
		ImageQuality:  defaultImageQuality,
		HasPhoto:      true,
		TextLegible:   found >= 2,
		CorrectFormat: numberMatch != nil,
	}
	return fs, issues, nil
}
