// Package rules implements the deterministic per-kind document scorer
// and classifier. It is the ground-truth labeling rule for synthetic
// training data and the fallback scorer when no trained model is
// available. Same input features produce bit-identical output, no
// randomness.
package rules

import (
	"math"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// Classification thresholds.
const (
	cinInvalidConfidence    = 0.5
	cinSuspiciousConfidence = 0.65
	cinSuspiciousQuality    = 0.6
	payslipMinConsistency   = 0.6
	payslipStaleMonths      = 3
	taxStaleYears           = 2
	bankMaxIncidents        = 2
	bankMinPeriodMonths     = 3
	maxScore                = 100
)

// Score computes the deterministic 0-100 score for a feature set.
// Unknown kinds score 0.
func Score(fs model.FeatureSet) float64 {
	switch f := fs.(type) {
	case model.CINFeatures:
		return scoreCIN(f)
	case model.PaySlipFeatures:
		return scorePaySlip(f)
	case model.TaxFeatures:
		return scoreTax(f)
	case model.BankFeatures:
		return scoreBank(f)
	}
	return 0
}

// Classify computes the deterministic document status for a feature
// set. Unknown kinds classify as INVALID.
func Classify(fs model.FeatureSet) model.DocumentStatus {
	switch f := fs.(type) {
	case model.CINFeatures:
		return classifyCIN(f)
	case model.PaySlipFeatures:
		return classifyPaySlip(f)
	case model.TaxFeatures:
		return classifyTax(f)
	case model.BankFeatures:
		return classifyBank(f)
	}
	return model.StatusInvalid
}

// Evaluate returns both the status and the score for a feature set.
func Evaluate(fs model.FeatureSet) (model.DocumentStatus, float64) {
	return Classify(fs), Score(fs)
}

func classifyCIN(f model.CINFeatures) model.DocumentStatus {
	switch {
	case f.IsExpired, f.OCRConfidence < cinInvalidConfidence, !f.HasPhoto, !f.TextLegible:
		return model.StatusInvalid
	case f.OCRConfidence < cinSuspiciousConfidence, f.ImageQuality < cinSuspiciousQuality, !f.CorrectFormat:
		return model.StatusSuspicious
	}
	return model.StatusValid
}

func scoreCIN(f model.CINFeatures) float64 {
	score := f.OCRConfidence*40 + f.ImageQuality*30 +
		b2f(!f.IsExpired)*20 + b2f(f.HasPhoto)*5 + b2f(f.TextLegible)*5
	return clip(score)
}

func classifyPaySlip(f model.PaySlipFeatures) model.DocumentStatus {
	switch {
	case !f.AmountsMatch, !f.HasRequiredFields:
		return model.StatusInvalid
	case !f.HasCompanyStamp, f.SalaryConsistency < payslipMinConsistency:
		return model.StatusSuspicious
	case f.MonthsSinceIssue > payslipStaleMonths:
		return model.StatusIncomplete
	}
	return model.StatusValid
}

func scorePaySlip(f model.PaySlipFeatures) float64 {
	incomeScore := math.Min(maxScore, f.NetSalary/300)
	qualityScore := b2f(f.HasCompanyStamp)*20 + b2f(f.AmountsMatch)*30 +
		b2f(f.HasRequiredFields)*30 + f.SalaryConsistency*20
	return clip(incomeScore*0.6 + qualityScore*0.4)
}

func classifyTax(f model.TaxFeatures) model.DocumentStatus {
	switch {
	case !f.CalculationsCorrect, !f.AllFieldsFilled:
		return model.StatusInvalid
	case !f.HasOfficialStamp, !f.IncomeReasonable:
		return model.StatusSuspicious
	case f.YearsSinceDeclaration > taxStaleYears:
		return model.StatusIncomplete
	}
	return model.StatusValid
}

func scoreTax(f model.TaxFeatures) float64 {
	incomeScore := math.Min(maxScore, f.TaxableIncome/500)
	complianceScore := b2f(f.HasOfficialStamp)*25 + b2f(f.CalculationsCorrect)*35 +
		b2f(f.AllFieldsFilled)*25 + b2f(f.IncomeReasonable)*15
	return clip(incomeScore*0.6 + complianceScore*0.4)
}

func classifyBank(f model.BankFeatures) model.DocumentStatus {
	switch {
	case !f.BalancesMatch, !f.HasBankHeader:
		return model.StatusInvalid
	case f.ClosingBalance < 0, f.LowBalanceIncidents > bankMaxIncidents, !f.RegularIncome:
		return model.StatusSuspicious
	case f.PeriodMonths < bankMinPeriodMonths:
		return model.StatusIncomplete
	}
	return model.StatusValid
}

func scoreBank(f model.BankFeatures) float64 {
	balanceScore := math.Min(maxScore, f.AverageBalance/100)
	incomeScore := math.Min(maxScore, f.AvgMonthlyIncome/50)
	stabilityScore := b2f(f.RegularIncome)*30 + b2f(f.SavingsRate > 0)*30 +
		b2f(f.LowBalanceIncidents == 0)*40
	return clip(balanceScore*0.2 + incomeScore*0.4 + stabilityScore*0.4)
}

func clip(score float64) float64 {
	return math.Max(0, math.Min(maxScore, score))
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
