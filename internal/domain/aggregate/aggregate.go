// Package aggregate combines per-document analysis results into one
// creditworthiness assessment. The evaluator owns no state; it is a
// pure reducer over a caller-supplied list of results plus the
// applicant-declared requested credit and monthly payment.
package aggregate

import (
	"fmt"
	"math"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// Component weights of the overall score. They sum to 1.0 exactly.
const (
	incomeWeight      = 0.35
	consistencyWeight = 0.25
	debtRatioWeight   = 0.30
	qualityWeight     = 0.10
)

// Required document counts.
const (
	minPaySlips        = 2
	minTaxDeclarations = 1
	maxAveragedSlips   = 3
)

// Default gates, overridable per evaluator.
const (
	DefaultMinMonthlyIncome = 3000.0 // MAD
	DefaultMaxDebtToIncome  = 40.0   // percent
	baseCreditMultiplier    = 10.0
)

// Evaluator computes creditworthiness assessments. The zero value is
// not usable; construct with New.
type Evaluator struct {
	minMonthlyIncome float64
	maxDebtToIncome  float64
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithMinMonthlyIncome overrides the minimum monthly income gate (MAD).
func WithMinMonthlyIncome(income float64) Option {
	return func(e *Evaluator) {
		if income > 0 {
			e.minMonthlyIncome = income
		}
	}
}

// WithMaxDebtToIncome overrides the maximum debt-to-income ratio gate
// (percent).
func WithMaxDebtToIncome(ratio float64) Option {
	return func(e *Evaluator) {
		if ratio > 0 {
			e.maxDebtToIncome = ratio
		}
	}
}

// New creates an Evaluator with the default gates.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		minMonthlyIncome: DefaultMinMonthlyIncome,
		maxDebtToIncome:  DefaultMaxDebtToIncome,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate produces the assessment for a set of analyzed documents.
// An empty document list yields a zero-score REJECTED assessment, not
// an error.
func (e *Evaluator) Evaluate(documents []model.DocumentAnalysisResult, requestedCredit, monthlyPayment float64) model.CreditworthinessAssessment {
	incomeScore, monthlyIncome := incomeScore(documents)
	consistencyScore := consistencyScore(documents)
	debtScore, debtRatio := debtRatioScore(monthlyIncome, monthlyPayment)

	qualityScore := 0.0
	if len(documents) > 0 {
		for _, d := range documents {
			qualityScore += d.Score
		}
		qualityScore /= float64(len(documents))
	}

	overall := incomeScore*incomeWeight +
		consistencyScore*consistencyWeight +
		debtScore*debtRatioWeight +
		qualityScore*qualityWeight

	rating, decision, riskLevel := rate(overall)

	isEligible := overall >= 60 && monthlyIncome >= e.minMonthlyIncome
	reason := decisionReason(overall, decision)
	if len(documents) == 0 {
		decision = model.DecisionRejected
		reason = "no documents submitted"
	}
	if len(documents) > 0 && monthlyIncome < e.minMonthlyIncome {
		decision = model.DecisionRejected
		reason = fmt.Sprintf("insufficient monthly income (%.0f MAD < %.0f MAD)", monthlyIncome, e.minMonthlyIncome)
	}
	if debtRatio > e.maxDebtToIncome {
		decision = model.DecisionRejected
		riskLevel = model.RiskHigh
		reason = fmt.Sprintf("debt-to-income ratio too high (%.1f%% > %.0f%%)", debtRatio, e.maxDebtToIncome)
	}

	confidence := math.Min((consistencyScore+qualityScore)/200, 1.0)

	a := model.CreditworthinessAssessment{
		OverallScore:         round2(overall),
		IncomeScore:          round2(incomeScore),
		ConsistencyScore:     round2(consistencyScore),
		DebtRatioScore:       round2(debtScore),
		DocumentQualityScore: round2(qualityScore),
		Rating:               rating,
		Decision:             decision,
		Confidence:           round3(confidence),
		RiskLevel:            riskLevel,
		MonthlyIncome:        monthlyIncome,
		DebtToIncomeRatio:    round2(debtRatio),
		MaxCreditLimit:       round2(maxCreditLimit(monthlyIncome, overall)),
		IsEligible:           isEligible,
		DecisionReason:       reason,
	}
	a.Strengths, a.Weaknesses = strengthsWeaknesses(incomeScore, debtScore, consistencyScore, qualityScore)
	a.Recommendations = recommendations(monthlyIncome, overall, debtRatio, decision)
	a.RequiredDocuments, a.MissingDocuments = documentChecklist(documents)
	return a
}

// incomeScore computes the income component and the monthly income it
// was derived from. Pay slip net salaries are averaged across up to
// three recent slips; a tax declaration adds a corroboration bonus.
func incomeScore(documents []model.DocumentAnalysisResult) (float64, float64) {
	var salaries []float64
	hasTaxDeclaration := false
	for _, d := range documents {
		switch d.DocumentType {
		case model.KindPaySlip:
			if ps, ok := d.ExtractedData.(model.PaySlipFeatures); ok && ps.NetSalary > 0 && len(salaries) < maxAveragedSlips {
				salaries = append(salaries, ps.NetSalary)
			}
		case model.KindTaxDeclaration:
			hasTaxDeclaration = true
		}
	}

	score := 0.0
	monthlyIncome := 0.0
	if len(salaries) > 0 {
		for _, s := range salaries {
			monthlyIncome += s
		}
		monthlyIncome /= float64(len(salaries))

		switch {
		case monthlyIncome >= 15000:
			score += 40
		case monthlyIncome >= 10000:
			score += 30
		case monthlyIncome >= 7000:
			score += 20
		case monthlyIncome >= 4000:
			score += 10
		default:
			score += 5
		}

		if len(salaries) >= 2 {
			lo, hi := salaries[0], salaries[0]
			for _, s := range salaries[1:] {
				lo = math.Min(lo, s)
				hi = math.Max(hi, s)
			}
			ratio := 1.0
			if monthlyIncome > 0 {
				ratio = (hi - lo) / monthlyIncome
			}
			switch {
			case ratio < 0.05:
				score += 20
			case ratio < 0.15:
				score += 15
			case ratio < 0.25:
				score += 10
			default:
				score += 5
			}
		}
	}

	if hasTaxDeclaration {
		score += 10
	}
	return math.Min(score, 100), monthlyIncome
}

// consistencyScore blends the fraction of VALID documents, the average
// document score, and the average confidence at 40/30/30.
func consistencyScore(documents []model.DocumentAnalysisResult) float64 {
	if len(documents) == 0 {
		return 0
	}
	valid := 0.0
	sumScore := 0.0
	sumConfidence := 0.0
	for _, d := range documents {
		if d.Status == model.StatusValid {
			valid++
		}
		sumScore += d.Score
		sumConfidence += d.Confidence
	}
	n := float64(len(documents))
	score := (valid/n)*40 + (sumScore/n/100)*30 + (sumConfidence/n)*30
	return math.Min(score, 100)
}

// debtRatioScore returns the debt component score and the ratio as a
// percentage. Zero income yields zero for both, never NaN.
func debtRatioScore(monthlyIncome, monthlyPayment float64) (float64, float64) {
	if monthlyIncome <= 0 {
		return 0, 0
	}
	ratio := monthlyPayment / monthlyIncome * 100
	switch {
	case ratio <= 25:
		return 100, ratio
	case ratio <= 33:
		return 80, ratio
	case ratio <= 40:
		return 60, ratio
	case ratio <= 50:
		return 40, ratio
	}
	return 20, ratio
}

func rate(overall float64) (rating, decision, riskLevel string) {
	switch {
	case overall >= 80:
		return model.RatingExcellent, model.DecisionApproved, model.RiskLow
	case overall >= 65:
		return model.RatingGood, model.DecisionApproved, model.RiskLow
	case overall >= 50:
		return model.RatingFair, model.DecisionReview, model.RiskMedium
	case overall >= 35:
		return model.RatingPoor, model.DecisionReview, model.RiskHigh
	}
	return model.RatingRejected, model.DecisionRejected, model.RiskHigh
}

func decisionReason(overall float64, decision string) string {
	switch decision {
	case model.DecisionApproved:
		if overall >= 80 {
			return "strong financial profile"
		}
		return "good financial profile"
	case model.DecisionReview:
		return "acceptable profile, manual review required"
	}
	return fmt.Sprintf("overall score too low (%.1f < 35)", overall)
}

// maxCreditLimit is the recommended ceiling: a base multiple of the
// monthly income scaled by the score band.
func maxCreditLimit(monthlyIncome, overall float64) float64 {
	multiplier := baseCreditMultiplier
	switch {
	case overall >= 90:
		multiplier *= 1.5
	case overall >= 80:
		multiplier *= 1.3
	case overall >= 70:
		multiplier *= 1.1
	case overall >= 60:
		multiplier *= 0.9
	default:
		multiplier *= 0.5
	}
	return monthlyIncome * multiplier
}

func strengthsWeaknesses(income, debt, consistency, quality float64) (strengths, weaknesses []string) {
	if income >= 70 {
		strengths = append(strengths, "strong income level")
	} else if income < 40 {
		weaknesses = append(weaknesses, "low income level")
	}
	if debt >= 80 {
		strengths = append(strengths, "low debt-to-income ratio")
	} else if debt < 50 {
		weaknesses = append(weaknesses, "high debt-to-income ratio")
	}
	if consistency >= 70 {
		strengths = append(strengths, "consistent documentation")
	} else if consistency < 50 {
		weaknesses = append(weaknesses, "inconsistent or incomplete documentation")
	}
	if quality >= 75 {
		strengths = append(strengths, "high quality documents")
	} else if quality < 50 {
		weaknesses = append(weaknesses, "poor quality or suspicious documents")
	}
	return strengths, weaknesses
}

func recommendations(monthlyIncome, overall, debtRatio float64, decision string) []string {
	var recs []string
	if monthlyIncome < 5000 {
		recs = append(recs, "consider increasing income sources")
	}
	if overall < 70 {
		recs = append(recs, "improve financial stability before applying")
	}
	if debtRatio > 30 {
		recs = append(recs, "reduce existing debt obligations")
	}
	if decision == model.DecisionReview {
		recs = append(recs, "provide additional guarantees or a co-signer")
	}
	return recs
}

func documentChecklist(documents []model.DocumentAnalysisResult) (required, missing []string) {
	paySlips, taxDeclarations := 0, 0
	for _, d := range documents {
		switch d.DocumentType {
		case model.KindPaySlip:
			paySlips++
		case model.KindTaxDeclaration:
			taxDeclarations++
		}
	}

	required = append(required, fmt.Sprintf("%d recent pay slips", minPaySlips))
	if paySlips < minPaySlips {
		missing = append(missing, fmt.Sprintf("pay slips (%d/%d)", paySlips, minPaySlips))
	}
	required = append(required, "tax declaration")
	if taxDeclarations < minTaxDeclarations {
		missing = append(missing, "tax declaration")
	}
	return required, missing
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
