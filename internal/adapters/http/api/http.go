// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	app "github.com/mkadiri/creditworthy/internal/app"
	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// AnalyzeDocument extracts features from raw document text and scores it.
	AnalyzeDocument(ctx context.Context, kind model.DocumentKind, text string) (model.DocumentAnalysisResult, error)

	// AnalyzeUpload extracts the text layer from an uploaded file first.
	AnalyzeUpload(ctx context.Context, kind model.DocumentKind, data []byte) (model.DocumentAnalysisResult, error)

	// ScoreFeatures scores an already-extracted feature vector.
	ScoreFeatures(ctx context.Context, features model.FeatureSet) (app.ScoreResult, error)

	// EvaluateCreditworthiness aggregates analyzed documents into one assessment.
	EvaluateCreditworthiness(ctx context.Context, documents []model.DocumentAnalysisResult, requestedCredit, monthlyPayment float64) (model.CreditworthinessAssessment, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	scoreHandler    *ScoreHandler
	analyzeHandler  *AnalyzeHandler
	evaluateHandler *EvaluateHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		scoreHandler:    NewScoreHandler(deps),
		analyzeHandler:  NewAnalyzeHandler(deps, maxUploadBytes),
		evaluateHandler: NewEvaluateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/documents/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/documents/evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeFeatures parses a raw feature payload into the concrete
// feature struct for the kind. Unknown JSON fields are rejected so a
// payload sent under the wrong kind fails loudly instead of scoring a
// half-zeroed vector.
func decodeFeatures(kind model.DocumentKind, raw json.RawMessage) (model.FeatureSet, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing features")
	}
	decode := func(v any) error {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	}
	switch kind {
	case model.KindCIN:
		var f model.CINFeatures
		if err := decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case model.KindPaySlip:
		var f model.PaySlipFeatures
		if err := decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case model.KindTaxDeclaration:
		var f model.TaxFeatures
		if err := decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case model.KindBankStatement:
		var f model.BankFeatures
		if err := decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, model.ErrUnknownKind
	}
}
