// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mkadiri/creditworthy/internal/adapters/pdftext"
	"github.com/mkadiri/creditworthy/internal/domain/extract"
	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// AnalyzeDependencies defines the interface for document analysis.
type AnalyzeDependencies interface {
	AnalyzeDocument(ctx context.Context, kind model.DocumentKind, text string) (model.DocumentAnalysisResult, error)
	AnalyzeUpload(ctx context.Context, kind model.DocumentKind, data []byte) (model.DocumentAnalysisResult, error)
}

// AnalyzeHandler handles document analysis requests.
type AnalyzeHandler struct {
	deps           AnalyzeDependencies
	maxUploadBytes int64
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies, maxUploadBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

// analyzeRequest carries one document, either as raw text or as a
// base64-encoded file upload. Exactly one of the two must be set.
type analyzeRequest struct {
	DocumentType  string `json:"document_type"`
	Text          string `json:"text,omitempty"`
	ContentBase64 string `json:"content_base64,omitempty"`
}

func (a analyzeRequest) validate() error {
	switch {
	case strings.TrimSpace(a.DocumentType) == "":
		return errors.New("missing document_type")
	case a.Text == "" && a.ContentBase64 == "":
		return errors.New("one of text or content_base64 is required")
	case a.Text != "" && a.ContentBase64 != "":
		return errors.New("text and content_base64 are mutually exclusive")
	}
	return nil
}

// HandleAnalyze handles POST /documents/analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_document"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	kind, err := model.ParseKind(req.DocumentType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_document_type", WrapKind(op, ErrBadRequest, err))
		return
	}

	var result model.DocumentAnalysisResult
	if req.ContentBase64 != "" {
		data, decErr := base64.StdEncoding.DecodeString(req.ContentBase64)
		if decErr != nil {
			writeError(w, http.StatusBadRequest, "bad_content", WrapKind(op, ErrBadRequest, decErr))
			return
		}
		result, err = h.deps.AnalyzeUpload(r.Context(), kind, data)
	} else {
		result, err = h.deps.AnalyzeDocument(r.Context(), kind, req.Text)
	}
	if err != nil {
		// Unreadable documents still carry a structured verdict, so
		// the client gets the result body along with the 422.
		if errors.Is(err, extract.ErrUnreadable) || errors.Is(err, pdftext.ErrExtraction) {
			writeJSON(w, http.StatusUnprocessableEntity, result)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
