package extract

import (
	"math"
	"regexp"

	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// Bank statement defaults and thresholds.
const (
	defaultClosingBalance = 15000.0
	defaultPeriodMonths   = 3
	lowBalanceThreshold   = 500.0
	balanceTolerance      = 1.0
)

var (
	closingBalanceCascade = cascade{
		patterns: compile(`(?:Solde.*?Final|Solde).*?` + amount),
		def:      defaultClosingBalance,
	}
	openingBalanceCascade = cascade{
		patterns: compile(`(?:Solde.*?Initial|Ancien.*?Solde|Solde.*?Ouverture).*?` + amount),
	}

	creditPattern      = regexp.MustCompile(`(?i)(?:Crédit|Salaire|Virement\s+Reçu).*?` + amount)
	debitPattern       = regexp.MustCompile(`(?i)(?:Débit|Loyer|Courses|Retrait).*?` + amount)
	bankHeaderPattern  = regexp.MustCompile(`(?i)banque|bank|attijariwafa|bmce|cih|crédit agricole`)
	periodPattern      = regexp.MustCompile(`(?i)(?:Période|Relevé).*?(\d{1,2})\s*mois`)
	accountHolderRegex = regexp.MustCompile(`(?i)Titulaire.*?[:]\s*\S`)
)

// sumMatches parses every match of the pattern and returns the values.
func sumMatches(p *regexp.Regexp, text string) []float64 {
	var out []float64
	for _, m := range p.FindAllStringSubmatch(text, -1) {
		if v, err := parseAmount(m[1]); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func extractBank(text string) (model.FeatureSet, []string, error) {
	var issues []string

	closing, closingFound := closingBalanceCascade.find(text)
	if !closingFound {
		issues = append(issues, "closing balance not found, using default")
	}

	credits := sumMatches(creditPattern, text)
	debits := sumMatches(debitPattern, text)
	totalCredits, totalDebits := 0.0, 0.0
	for _, c := range credits {
		totalCredits += c
	}
	for _, d := range debits {
		totalDebits += d
	}
	if len(credits) == 0 {
		issues = append(issues, "no credit transactions found")
	}

	period := defaultPeriodMonths
	if m := periodPattern.FindStringSubmatch(text); m != nil {
		if v, err := parseAmount(m[1]); err == nil && v > 0 {
			period = int(v)
		}
	} else {
		issues = append(issues, "statement period not found, assuming 3 months")
	}

	opening, openingFound := openingBalanceCascade.find(text)
	balancesMatch := true
	if openingFound {
		balancesMatch = math.Abs(opening+totalCredits-totalDebits-closing) < balanceTolerance
		if !balancesMatch {
			issues = append(issues, "balances do not reconcile with transactions")
		}
	} else {
		opening = closing - totalCredits + totalDebits
		issues = append(issues, "opening balance not found, derived from transactions")
	}

	savingsRate := 0.0
	if totalCredits > 0 {
		savingsRate = (totalCredits - totalDebits) / totalCredits
	}

	incidents := 0
	if closing < lowBalanceThreshold {
		incidents = 1
		issues = append(issues, "low closing balance")
	}

	if !accountHolderRegex.MatchString(text) {
		issues = append(issues, "account holder not found")
	}

	hasHeader := bankHeaderPattern.MatchString(text)
	if !hasHeader {
		issues = append(issues, "bank header not found")
	}

	fs := model.BankFeatures{
		PeriodMonths:        period,
		OpeningBalance:      opening,
		ClosingBalance:      closing,
		AverageBalance:      (opening + closing) / 2,
		TotalCredits:        totalCredits,
		TotalDebits:         totalDebits,
		AvgMonthlyIncome:    totalCredits / float64(period),
		AvgMonthlyExpenses:  totalDebits / float64(period),
		SavingsRate:         savingsRate,
		LowBalanceIncidents: incidents,
		HasBankHeader:       hasHeader,
		BalancesMatch:       balancesMatch,
		RegularIncome:       len(credits) >= period,
	}
	return fs, issues, nil
}
