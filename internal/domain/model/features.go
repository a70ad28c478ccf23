package model

// FeatureSet is the typed feature record extracted from one document.
// Each kind has a fixed field list; Vector and Columns expose the same
// fields in a stable order for the model layer, with booleans cast to
// {0,1}.
type FeatureSet interface {
	Kind() DocumentKind
	Columns() []string
	Vector() []float64
}

// CINFeatures are the features of a national identity card.
type CINFeatures struct {
	IsExpired     bool    `json:"is_expired"`
	OCRConfidence float64 `json:"ocr_confidence"`
	ImageQuality  float64 `json:"image_quality"`
	HasPhoto      bool    `json:"has_photo"`
	TextLegible   bool    `json:"text_legible"`
	CorrectFormat bool    `json:"correct_format"`
}

// Kind implements FeatureSet.
func (CINFeatures) Kind() DocumentKind { return KindCIN }

// Columns implements FeatureSet.
func (CINFeatures) Columns() []string {
	return []string{"is_expired", "ocr_confidence", "image_quality", "has_photo", "text_legible", "correct_format"}
}

// Vector implements FeatureSet.
func (f CINFeatures) Vector() []float64 {
	return []float64{b2f(f.IsExpired), f.OCRConfidence, f.ImageQuality, b2f(f.HasPhoto), b2f(f.TextLegible), b2f(f.CorrectFormat)}
}

// PaySlipFeatures are the features of a monthly pay slip. Amounts are
// in MAD.
type PaySlipFeatures struct {
	GrossSalary       float64 `json:"gross_salary"`
	NetSalary         float64 `json:"net_salary"`
	TotalDeductions   float64 `json:"total_deductions"`
	HasCompanyStamp   bool    `json:"has_company_stamp"`
	AmountsMatch      bool    `json:"amounts_match"`
	HasRequiredFields bool    `json:"has_required_fields"`
	SalaryConsistency float64 `json:"salary_consistency"`
	MonthsSinceIssue  int     `json:"months_since_issue"`
}

// Kind implements FeatureSet.
func (PaySlipFeatures) Kind() DocumentKind { return KindPaySlip }

// Columns implements FeatureSet.
func (PaySlipFeatures) Columns() []string {
	return []string{
		"gross_salary", "net_salary", "total_deductions", "has_company_stamp",
		"amounts_match", "has_required_fields", "salary_consistency", "months_since_issue",
	}
}

// Vector implements FeatureSet.
func (f PaySlipFeatures) Vector() []float64 {
	return []float64{
		f.GrossSalary, f.NetSalary, f.TotalDeductions, b2f(f.HasCompanyStamp),
		b2f(f.AmountsMatch), b2f(f.HasRequiredFields), f.SalaryConsistency, float64(f.MonthsSinceIssue),
	}
}

// TaxFeatures are the features of an annual tax declaration. Amounts
// are in MAD.
type TaxFeatures struct {
	GrossIncome           float64 `json:"gross_income"`
	TaxableIncome         float64 `json:"taxable_income"`
	TaxPaid               float64 `json:"tax_paid"`
	HasOfficialStamp      bool    `json:"has_official_stamp"`
	CalculationsCorrect   bool    `json:"calculations_correct"`
	AllFieldsFilled       bool    `json:"all_fields_filled"`
	IncomeReasonable      bool    `json:"income_reasonable"`
	YearsSinceDeclaration int     `json:"years_since_declaration"`
}

// Kind implements FeatureSet.
func (TaxFeatures) Kind() DocumentKind { return KindTaxDeclaration }

// Columns implements FeatureSet.
func (TaxFeatures) Columns() []string {
	return []string{
		"gross_income", "taxable_income", "tax_paid", "has_official_stamp",
		"calculations_correct", "all_fields_filled", "income_reasonable", "years_since_declaration",
	}
}

// Vector implements FeatureSet.
func (f TaxFeatures) Vector() []float64 {
	return []float64{
		f.GrossIncome, f.TaxableIncome, f.TaxPaid, b2f(f.HasOfficialStamp),
		b2f(f.CalculationsCorrect), b2f(f.AllFieldsFilled), b2f(f.IncomeReasonable), float64(f.YearsSinceDeclaration),
	}
}

// BankFeatures are the features of a bank statement covering one or
// more months. Amounts are in MAD; SavingsRate can be negative.
type BankFeatures struct {
	PeriodMonths        int     `json:"period_months"`
	OpeningBalance      float64 `json:"opening_balance"`
	ClosingBalance      float64 `json:"closing_balance"`
	AverageBalance      float64 `json:"average_balance"`
	TotalCredits        float64 `json:"total_credits"`
	TotalDebits         float64 `json:"total_debits"`
	AvgMonthlyIncome    float64 `json:"avg_monthly_income"`
	AvgMonthlyExpenses  float64 `json:"avg_monthly_expenses"`
	SavingsRate         float64 `json:"savings_rate"`
	LowBalanceIncidents int     `json:"low_balance_incidents"`
	HasBankHeader       bool    `json:"has_bank_header"`
	BalancesMatch       bool    `json:"balances_match"`
	RegularIncome       bool    `json:"regular_income"`
}

// Kind implements FeatureSet.
func (BankFeatures) Kind() DocumentKind { return KindBankStatement }

// Columns implements FeatureSet.
func (BankFeatures) Columns() []string {
	return []string{
		"period_months", "opening_balance", "closing_balance", "average_balance",
		"total_credits", "total_debits", "avg_monthly_income", "avg_monthly_expenses",
		"savings_rate", "low_balance_incidents", "has_bank_header", "balances_match", "regular_income",
	}
}

// Vector implements FeatureSet.
func (f BankFeatures) Vector() []float64 {
	return []float64{
		float64(f.PeriodMonths), f.OpeningBalance, f.ClosingBalance, f.AverageBalance,
		f.TotalCredits, f.TotalDebits, f.AvgMonthlyIncome, f.AvgMonthlyExpenses,
		f.SavingsRate, float64(f.LowBalanceIncidents), b2f(f.HasBankHeader), b2f(f.BalancesMatch), b2f(f.RegularIncome),
	}
}

// EmptyFeatures returns the zero-valued feature set for a kind.
func EmptyFeatures(kind DocumentKind) FeatureSet {
	switch kind {
	case KindCIN:
		return CINFeatures{}
	case KindPaySlip:
		return PaySlipFeatures{}
	case KindTaxDeclaration:
		return TaxFeatures{}
	case KindBankStatement:
		return BankFeatures{}
	}
	return nil
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
