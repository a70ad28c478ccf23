package extract

import (
	"math"
	"regexp"
	"time"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// Pay slip defaults and thresholds.
const (
	defaultGrossSalary    = 10000.0
	defaultNetSalary      = 8000.0
	baseConsistency       = 0.85
	maxDeductionRatio     = 0.40
	minDeductionRatio     = 0.10
	amountMatchTolerance  = 1.0
	defaultMonthsSinceIss = 1
)

var (
	grossSalaryCascade = cascade{
		patterns: compile(
			`(?:Total Brut|Salaire.*?Brut|Brut).*?`+amount,
			amount+`\s*(?:MAD|DH)`,
		),
		def: defaultGrossSalary,
	}
	netSalaryCascade = cascade{
		patterns: compile(`(?:NET\s*À\s*PAYER|Net|Salaire.*?Net).*?` + amount),
		def:      defaultNetSalary,
	}

	cnssCascade = cascade{patterns: compile(`CNSS.*?(\d+(?:[.,]\d+)?)`)}
	amoCascade  = cascade{patterns: compile(`AMO.*?(\d+(?:[.,]\d+)?)`)}
	cimrCascade = cascade{patterns: compile(`CIMR.*?(\d+(?:[.,]\d+)?)`)}
	irCascade   = cascade{patterns: compile(`IR.*?(\d+(?:[.,]\d+)?)`)}

	employerPattern  = regexp.MustCompile(`(?i)(SOCIETE|ENTREPRISE|BANK)[^\n]*|([A-Z][A-Z\s]+(?:MAROC|SA|SARL))`)
	stampPattern     = regexp.MustCompile(`(?i)cachet|tampon|stamp`)
	payPeriodPattern = regexp.MustCompile(`(?i)(Janvier|Février|Fevrier|Mars|Avril|Mai|Juin|Juillet|Août|Aout|Septembre|Octobre|Novembre|Décembre|Decembre)\s+(\d{4})`)
)

func extractPaySlip(text string) (model.FeatureSet, []string, error) {
	var issues []string

	gross, grossFound := grossSalaryCascade.find(text)
	if !grossFound {
		issues = append(issues, "gross salary not found, using default")
	}
	net, netFound := netSalaryCascade.find(text)
	if !netFound {
		issues = append(issues, "net salary not found, using default")
	}

	cnss, _ := cnssCascade.find(text)
	amo, _ := amoCascade.find(text)
	cimr, _ := cimrCascade.find(text)
	ir, _ := irCascade.find(text)
	deductions := cnss + amo + cimr + ir
	if deductions == 0 && gross > net {
		deductions = gross - net
		issues = append(issues, "salary deductions not found, derived from gross and net")
	}

	periodFound := false
	monthsSinceIssue := defaultMonthsSinceIss
	if m := payPeriodPattern.FindStringSubmatch(text); m != nil {
		if year, err := parseAmount(m[2]); err == nil {
			monthsSinceIssue = monthsSince(m[1], int(year), time.Now())
			periodFound = true
		}
	}
	if !periodFound {
		issues = append(issues, "pay period not found")
	}

	consistency := baseConsistency
	if net > gross {
		consistency = 0.3
		issues = append(issues, "net salary greater than gross salary - suspicious")
	} else if gross > 0 {
		ratio := (gross - net) / gross
		switch {
		case ratio > maxDeductionRatio:
			consistency -= 0.2
			issues = append(issues, "unusually high deductions")
		case ratio < minDeductionRatio:
			consistency -= 0.1
			issues = append(issues, "unusually low deductions")
		}
	}
	consistency = math.Max(0, math.Min(1, consistency))

	hasStamp := stampPattern.MatchString(text) || employerPattern.MatchString(text)
	if !hasStamp {
		issues = append(issues, "employer name not found")
	}

	fs := model.PaySlipFeatures{
		GrossSalary:       gross,
		NetSalary:         net,
		TotalDeductions:   deductions,
		HasCompanyStamp:   hasStamp,
		AmountsMatch:      math.Abs(gross-deductions-net) < amountMatchTolerance,
		HasRequiredFields: grossFound && netFound && periodFound,
		SalaryConsistency: consistency,
		MonthsSinceIssue:  monthsSinceIssue,
	}
	return fs, issues, nil
}
