package model

import "time"

// Decision values for a creditworthiness assessment.
const (
	DecisionApproved = "APPROVED"
	DecisionReview   = "REVIEW"
	DecisionRejected = "REJECTED"
)

// Risk levels.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// Ratings.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
	RatingRejected  = "Rejected"
)

// DocumentAnalysisResult is produced once per analyzed document and is
// immutable after creation. It is consumed only by the aggregator.
type DocumentAnalysisResult struct {
	ID               string         `json:"id"`
	DocumentType     DocumentKind   `json:"document_type"`
	Status           DocumentStatus `json:"status"`
	Score            float64        `json:"score"`
	Confidence       float64        `json:"confidence"`
	ExtractedData    FeatureSet     `json:"extracted_data"`
	ValidationIssues []string       `json:"validation_issues"`
	RiskFlags        []string       `json:"risk_flags"`
	Recommendations  []string       `json:"recommendations"`

	// StatusProbabilities carries the per-status probability map when
	// a trained model produced the result.
	StatusProbabilities map[string]float64 `json:"status_probabilities,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// CreditworthinessAssessment is derived on demand from 1..N document
// analysis results plus the applicant-declared requested credit and
// monthly payment. It is a pure function of its inputs and is never
// persisted or mutated.
type CreditworthinessAssessment struct {
	OverallScore         float64 `json:"overall_score"`
	IncomeScore          float64 `json:"income_score"`
	ConsistencyScore     float64 `json:"consistency_score"`
	DebtRatioScore       float64 `json:"debt_ratio_score"`
	DocumentQualityScore float64 `json:"document_quality_score"`

	Rating     string  `json:"rating"`
	Decision   string  `json:"decision"`
	Confidence float64 `json:"confidence"`
	RiskLevel  string  `json:"risk_level"`

	MonthlyIncome     float64 `json:"monthly_income"`
	DebtToIncomeRatio float64 `json:"debt_to_income_ratio"`
	MaxCreditLimit    float64 `json:"max_credit_limit"`

	IsEligible     bool   `json:"is_eligible"`
	DecisionReason string `json:"decision_reason"`

	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	Recommendations   []string `json:"recommendations"`
	RequiredDocuments []string `json:"required_documents"`
	MissingDocuments  []string `json:"missing_documents"`
}
