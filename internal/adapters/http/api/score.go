// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	app "github.com/mkadiri/creditworthy/internal/app"
	"github.com/mkadiri/creditworthy/internal/domain/model"
)

// ScoreDependencies defines the interface for direct feature scoring.
type ScoreDependencies interface {
	ScoreFeatures(ctx context.Context, features model.FeatureSet) (app.ScoreResult, error)
}

// ScoreHandler handles direct feature-vector scoring requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreRequest carries an already-extracted feature payload. The
// features object must match the field list for the kind.
type scoreRequest struct {
	DocumentType string          `json:"document_type"`
	Features     json.RawMessage `json:"features"`
}

// HandleScore handles POST /score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	kind, err := model.ParseKind(req.DocumentType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_document_type", WrapKind(op, ErrBadRequest, err))
		return
	}
	features, err := decodeFeatures(kind, req.Features)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_features", WrapKind(op, ErrBadRequest, err))
		return
	}
	result, err := h.deps.ScoreFeatures(r.Context(), features)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
