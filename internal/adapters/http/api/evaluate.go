// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mkadiri/creditworthy/internal/domain/extract"
	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// EvaluateDependencies defines the interface for creditworthiness evaluation.
type EvaluateDependencies interface {
	AnalyzeDocument(ctx context.Context, kind model.DocumentKind, text string) (model.DocumentAnalysisResult, error)
	EvaluateCreditworthiness(ctx context.Context, documents []model.DocumentAnalysisResult, requestedCredit, monthlyPayment float64) (model.CreditworthinessAssessment, error)
}

// EvaluateHandler handles full-application evaluation requests.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// evaluateDocument is one document in an evaluation request.
type evaluateDocument struct {
	DocumentType string `json:"document_type"`
	Text         string `json:"text"`
}

// evaluateRequest carries an applicant's document texts plus the
// declared credit terms. Documents are analyzed inline, so a single
// call covers the whole application.
type evaluateRequest struct {
	Documents       []evaluateDocument `json:"documents"`
	RequestedCredit float64            `json:"requested_credit"`
	MonthlyPayment  float64            `json:"monthly_payment"`
}

func (e evaluateRequest) validate() error {
	switch {
	case len(e.Documents) == 0:
		return errors.New("missing documents")
	case e.RequestedCredit < 0:
		return errors.New("requested_credit must not be negative")
	case e.MonthlyPayment < 0:
		return errors.New("monthly_payment must not be negative")
	}
	for i, d := range e.Documents {
		if strings.TrimSpace(d.DocumentType) == "" {
			return fmt.Errorf("document %d: missing document_type", i)
		}
	}
	return nil
}

// evaluateResponse pairs the assessment with the per-document results
// it was derived from.
type evaluateResponse struct {
	Assessment model.CreditworthinessAssessment `json:"assessment"`
	Documents  []model.DocumentAnalysisResult   `json:"documents"`
}

// HandleEvaluate handles POST /documents/evaluate requests.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate_creditworthiness"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	results := make([]model.DocumentAnalysisResult, 0, len(req.Documents))
	for _, d := range req.Documents {
		kind, err := model.ParseKind(d.DocumentType)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown_document_type", WrapKind(op, ErrBadRequest, err))
			return
		}
		result, err := h.deps.AnalyzeDocument(r.Context(), kind, d.Text)
		if err != nil && !errors.Is(err, extract.ErrUnreadable) {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		// Unreadable documents keep their INVALID verdict and still
		// count against the applicant's document quality.
		results = append(results, result)
	}

	assessment, err := h.deps.EvaluateCreditworthiness(r.Context(), results, req.RequestedCredit, req.MonthlyPayment)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, evaluateResponse{Assessment: assessment, Documents: results})
}
