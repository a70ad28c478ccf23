package extract

import (
	"regexp"
	"time"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// Tax declaration defaults and thresholds.
const (
	defaultAnnualIncome  = 120000.0
	defaultTaxableIncome = 96000.0
	defaultTaxPaid       = 5000.0
	minReasonableTaxRate = 0.05
	maxReasonableTaxRate = 0.40
	minTaxableRatio      = 0.6
	maxTaxableRatio      = 0.95
)

var (
	annualIncomeCascade = cascade{
		patterns: compile(`(?:Revenu.*?Global|Revenu.*?Brut).*?` + amount),
		def:      defaultAnnualIncome,
	}
	taxableIncomeCascade = cascade{
		patterns: compile(`(?:Revenu.*?Imposable|Net.*?Imposable).*?` + amount),
		def:      defaultTaxableIncome,
	}
	taxPaidCascade = cascade{
		patterns: compile(`(?:Impôt|IR).*?` + amount),
		def:      defaultTaxPaid,
	}

	fiscalYearPattern    = regexp.MustCompile(`(?i)(?:Année|Year).*?(\d{4})`)
	officialStampPattern = regexp.MustCompile(`(?i)cachet|timbre|officiel|official`)
)

func extractTax(text string) (model.FeatureSet, []string, error) {
	var issues []string

	gross, grossFound := annualIncomeCascade.find(text)
	if !grossFound {
		issues = append(issues, "annual income not found, using default")
	}
	taxable, taxableFound := taxableIncomeCascade.find(text)
	if !taxableFound {
		issues = append(issues, "taxable income not found, using default")
	}
	taxPaid, taxFound := taxPaidCascade.find(text)
	if !taxFound {
		issues = append(issues, "tax paid not found, using default")
	}

	fiscalYear := time.Now().Year()
	yearFound := false
	if m := fiscalYearPattern.FindStringSubmatch(text); m != nil {
		if y, err := parseAmount(m[1]); err == nil {
			fiscalYear = int(y)
			yearFound = true
		}
	}
	if !yearFound {
		issues = append(issues, "fiscal year not found")
	}
	years := time.Now().Year() - fiscalYear
	if years < 0 {
		years = 0
	}

	if taxable > gross {
		issues = append(issues, "taxable income exceeds gross income - suspicious")
	}

	taxRate := 0.0
	if gross > 0 {
		taxRate = taxPaid / gross
	}
	calculationsCorrect := taxable <= gross &&
		taxRate >= minReasonableTaxRate && taxRate <= maxReasonableTaxRate

	incomeReasonable := false
	if gross > 0 {
		ratio := taxable / gross
		incomeReasonable = ratio > minTaxableRatio && ratio < maxTaxableRatio
	}

	hasStamp := officialStampPattern.MatchString(text)
	if !hasStamp {
		issues = append(issues, "official stamp not found")
	}

	fs := model.TaxFeatures{
		GrossIncome:           gross,
		TaxableIncome:         taxable,
		TaxPaid:               taxPaid,
		HasOfficialStamp:      hasStamp,
		CalculationsCorrect:   calculationsCorrect,
		AllFieldsFilled:       grossFound && taxableFound && taxFound && yearFound,
		IncomeReasonable:      incomeReasonable,
		YearsSinceDeclaration: years,
	}
	return fs, issues, nil
}
