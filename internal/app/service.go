// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkadiri/creditworthy/internal/adapters/pdftext"
	"github.com/mkadiri/creditworthy/internal/domain/aggregate"
	"github.com/mkadiri/creditworthy/internal/domain/dedupe"
	"github.com/mkadiri/creditworthy/internal/domain/extract"
	"github.com/mkadiri/creditworthy/internal/domain/model"
	"github.com/mkadiri/creditworthy/internal/domain/rules"
	"github.com/mkadiri/creditworthy/internal/ml"
	"github.com/mkadiri/creditworthy/pkg/logger"
	"github.com/mkadiri/creditworthy/pkg/metrics"
)

// fallbackConfidence is reported when no trained model is available
// and the rule engine scores the document instead.
const fallbackConfidence = 0.7

// Service implements the API dependencies for the creditworthiness engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry  *ml.Registry
	tracker   dedupe.Tracker
	evaluator *aggregate.Evaluator

	// Configuration
	modelDir         string
	dedupeSize       int
	minMonthlyIncome float64
	maxDebtToIncome  float64

	// State
	started   bool
	fallbacks map[model.DocumentKind]bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithModelDir sets the directory trained model artifacts are loaded from.
func WithModelDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.modelDir = dir
		}
	}
}

// WithDedupeSize sets the size of the duplicate-document cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMinMonthlyIncome sets the eligibility income floor in MAD.
func WithMinMonthlyIncome(income float64) Option {
	return func(s *Service) {
		if income > 0 {
			s.minMonthlyIncome = income
		}
	}
}

// WithMaxDebtToIncome sets the debt-to-income rejection ceiling in percent.
func WithMaxDebtToIncome(ratio float64) Option {
	return func(s *Service) {
		if ratio > 0 {
			s.maxDebtToIncome = ratio
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		modelDir:         "models",
		dedupeSize:       50000,
		minMonthlyIncome: aggregate.DefaultMinMonthlyIncome,
		maxDebtToIncome:  aggregate.DefaultMaxDebtToIncome,
		fallbacks:        make(map[model.DocumentKind]bool),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and loads model artifacts.
// Kinds without an artifact fall back to rule-based scoring.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting creditworthiness service...")

	s.tracker = dedupe.NewInMemoryTracker(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.evaluator = aggregate.New(
		aggregate.WithMinMonthlyIncome(s.minMonthlyIncome),
		aggregate.WithMaxDebtToIncome(s.maxDebtToIncome),
	)

	registry, missing := ml.LoadRegistry(s.modelDir)
	s.registry = registry
	for _, kind := range missing {
		s.fallbacks[kind] = true
		s.logger.Warn(ctx, "model artifact missing, using rule-based fallback",
			logger.String("documentType", string(kind)),
			logger.String("modelDir", s.modelDir),
		)
	}
	metrics.UpdateModelsLoaded(registry.Len())

	s.started = true
	s.logger.Info(ctx, "creditworthiness service started",
		logger.Int("modelsLoaded", registry.Len()),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping creditworthiness service...")
	s.started = false
	s.logger.Info(context.Background(), "creditworthiness service stopped")
}

// AnalyzeUpload extracts text from raw document bytes and analyzes it.
func (s *Service) AnalyzeUpload(ctx context.Context, kind model.DocumentKind, data []byte) (model.DocumentAnalysisResult, error) {
	text, err := pdftext.ExtractText(data)
	if err != nil {
		metrics.RecordDocumentRejected(string(kind))
		metrics.RecordErrorByComponent("pdftext", "extraction")
		return unreadableResult(kind), err
	}
	return s.AnalyzeDocument(ctx, kind, text)
}

// AnalyzeDocument extracts features from document text and scores
// them with the kind's trained model, falling back to the rule
// engine when no model is loaded. Unreadable text yields a
// zero-score INVALID result alongside the error.
func (s *Service) AnalyzeDocument(ctx context.Context, kind model.DocumentKind, text string) (model.DocumentAnalysisResult, error) {
	start := time.Now()

	features, issues, err := extract.Extract(text, kind)
	metrics.RecordExtractionLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordDocumentRejected(string(kind))
		if errors.Is(err, extract.ErrUnreadable) {
			s.logger.Warn(ctx, "unreadable document",
				logger.String("documentType", string(kind)),
				logger.Int("textLength", len(text)),
			)
			return unreadableResult(kind), err
		}
		metrics.RecordErrorByComponent("extract", "extraction")
		return model.DocumentAnalysisResult{}, err
	}

	riskFlags := make([]string, 0, len(issues)+1)
	riskFlags = append(riskFlags, issues...)

	if s.seenBefore(ctx, text) {
		metrics.RecordDuplicateDocument()
		riskFlags = append(riskFlags, "duplicate document submission")
		s.logger.Warn(ctx, "duplicate document detected",
			logger.String("documentType", string(kind)),
		)
	}

	status, score, confidence, probs, _ := s.score(ctx, kind, features)

	metrics.RecordDocumentAnalyzed(string(kind))
	metrics.RecordDocumentScore(score)
	metrics.RecordAssessmentLatency(float64(time.Since(start).Milliseconds()))

	result := model.DocumentAnalysisResult{
		ID:               uuid.NewString(),
		DocumentType:     kind,
		Status:           status,
		Score:            score,
		Confidence:       confidence,
		ExtractedData:    features,
		ValidationIssues: issues,
		RiskFlags:        riskFlags,
		Recommendations:  documentRecommendations(issues, score),

		StatusProbabilities: probs,

		AnalyzedAt: time.Now().UTC(),
	}

	s.logger.Debug(ctx, "document analyzed",
		logger.String("documentType", string(kind)),
		logger.String("status", string(status)),
		logger.Float64("score", score),
		logger.Float64("confidence", confidence),
	)

	return result, nil
}

// Scoring source labels reported alongside a score.
const (
	SourceModel = "model"
	SourceRules = "rules"
)

// ScoreResult is the outcome of scoring a feature vector directly,
// without running text extraction first.
type ScoreResult struct {
	Status        model.DocumentStatus `json:"status"`
	Score         float64              `json:"score"`
	Confidence    float64              `json:"confidence"`
	Probabilities map[string]float64   `json:"probabilities"`
	Source        string               `json:"source"`
}

// ScoreFeatures scores an already-extracted feature set. The trained
// model for the kind is preferred; the rule engine answers when no
// model is loaded.
func (s *Service) ScoreFeatures(ctx context.Context, features model.FeatureSet) (ScoreResult, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ScoreResult{}, ErrNotStarted
	}

	kind := features.Kind()
	status, score, confidence, probs, source := s.score(ctx, kind, features)
	metrics.RecordDocumentScore(score)
	return ScoreResult{
		Status:        status,
		Score:         score,
		Confidence:    confidence,
		Probabilities: probs,
		Source:        source,
	}, nil
}

// score runs the trained model for the kind, or the rule engine with
// a fixed confidence when no model is available.
func (s *Service) score(ctx context.Context, kind model.DocumentKind, features model.FeatureSet) (model.DocumentStatus, float64, float64, map[string]float64, string) {
	start := time.Now()

	s.mu.RLock()
	registry := s.registry
	s.mu.RUnlock()

	if registry != nil {
		pred, err := registry.Predict(features)
		if err == nil {
			metrics.RecordPrediction(string(kind))
			metrics.RecordPredictionLatency(float64(time.Since(start).Milliseconds()))
			return pred.Status, pred.Score, pred.Confidence, pred.Probabilities, SourceModel
		}
		if !errors.Is(err, ml.ErrModelUnavailable) {
			metrics.RecordErrorByComponent("ml", "prediction")
			s.logger.Error(ctx, "model prediction failed, using rule-based fallback",
				logger.String("documentType", string(kind)),
				logger.Error(err),
			)
		}
	}

	metrics.RecordModelFallback(string(kind))
	status, score := rules.Evaluate(features)
	return status, score, fallbackConfidence, map[string]float64{string(status): 1.0}, SourceRules
}

func (s *Service) seenBefore(ctx context.Context, text string) bool {
	s.mu.RLock()
	tracker := s.tracker
	s.mu.RUnlock()

	if tracker == nil {
		return false
	}
	return tracker.SeenAndRecord(ctx, dedupe.Fingerprint(text))
}

// EvaluateCreditworthiness aggregates analyzed documents into one
// credit assessment.
func (s *Service) EvaluateCreditworthiness(ctx context.Context, documents []model.DocumentAnalysisResult, requestedCredit, monthlyPayment float64) (model.CreditworthinessAssessment, error) {
	s.mu.RLock()
	evaluator := s.evaluator
	s.mu.RUnlock()

	if evaluator == nil {
		return model.CreditworthinessAssessment{}, ErrNotStarted
	}

	start := time.Now()
	assessment := evaluator.Evaluate(documents, requestedCredit, monthlyPayment)

	metrics.RecordAssessment(assessment.Decision)
	metrics.RecordAssessmentScore(assessment.OverallScore)
	metrics.RecordAssessmentLatency(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "creditworthiness evaluated",
		logger.Int("documents", len(documents)),
		logger.Float64("overallScore", assessment.OverallScore),
		logger.String("decision", assessment.Decision),
		logger.String("riskLevel", assessment.RiskLevel),
	)

	return assessment, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"modelDir":         s.modelDir,
		"dedupeSize":       s.dedupeSize,
		"minMonthlyIncome": s.minMonthlyIncome,
		"maxDebtToIncome":  s.maxDebtToIncome,
	}

	if s.started {
		stats["modelsLoaded"] = s.registry.Len()
		stats["trackedDocuments"] = s.tracker.Size()

		fallbackKinds := make([]string, 0, len(s.fallbacks))
		for kind := range s.fallbacks {
			fallbackKinds = append(fallbackKinds, string(kind))
		}
		stats["ruleFallbackKinds"] = fallbackKinds

		metrics.UpdateModelsLoaded(s.registry.Len())
	}

	return stats
}

// Forget drops a document fingerprint so it can be resubmitted.
func (s *Service) Forget(ctx context.Context, text string) {
	s.mu.RLock()
	tracker := s.tracker
	s.mu.RUnlock()

	if tracker != nil {
		tracker.Forget(ctx, dedupe.Fingerprint(text))
	}
}

func unreadableResult(kind model.DocumentKind) model.DocumentAnalysisResult {
	return model.DocumentAnalysisResult{
		ID:               uuid.NewString(),
		DocumentType:     kind,
		Status:           model.StatusInvalid,
		Score:            0,
		Confidence:       0,
		ExtractedData:    model.EmptyFeatures(kind),
		ValidationIssues: []string{"failed to extract text from document"},
		RiskFlags:        []string{"unreadable document"},
		Recommendations:  []string{"Upload a clearer, high-quality document"},
		AnalyzedAt:       time.Now().UTC(),
	}
}

func documentRecommendations(issues []string, score float64) []string {
	var recs []string
	if len(issues) > 0 {
		recs = append(recs, "Verify document authenticity")
	}
	if score < 50 {
		recs = append(recs, "Submit additional supporting documents")
	}
	return recs
}
