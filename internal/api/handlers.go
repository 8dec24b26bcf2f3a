package api

import (
	"encoding/json"
	"net/http"

	"hkb/internal/convert"
	"hkb/internal/engine"
	hkberrors "hkb/internal/errors"
	"hkb/internal/logging"
	"hkb/internal/policy"
	"hkb/internal/version"
)

// evaluateRequest is the body of POST /v1/evaluate.
type evaluateRequest struct {
	IngredientID string `json:"ingredientId"`
	Strictness   string `json:"strictness"`
	Madhab       string `json:"madhab"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, hkberrors.NewHkbError(hkberrors.InternalError, "invalid JSON body", err))
		return
	}
	if req.IngredientID == "" {
		s.writeError(w, http.StatusBadRequest, hkberrors.NewHkbError(hkberrors.EmptyInput, "ingredientId is required", nil))
		return
	}

	opts := engine.Options{
		Strictness: policy.ParseStrictness(req.Strictness),
		Madhab:     req.Madhab,
	}
	s.writeJSON(w, http.StatusOK, s.evaluator.Evaluate(req.IngredientID, opts))
}

// convertRequest is the body of POST /v1/convert.
type convertRequest struct {
	Text        string              `json:"text"`
	Preferences convert.Preferences `json:"preferences"`
}

// convertResponse wraps a conversion result with its history id when the
// result was persisted.
type convertResponse struct {
	*convert.ConversionResult
	ConversionID string `json:"conversionId,omitempty"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, hkberrors.NewHkbError(hkberrors.InternalError, "invalid JSON body", err))
		return
	}

	result := s.converter.Convert(req.Text, req.Preferences)

	resp := convertResponse{ConversionResult: result}
	if s.history != nil && result.Error == "" {
		id, err := s.history.Save(result, req.Preferences)
		if err != nil {
			s.logger.Warn("Failed to persist conversion", logging.Fields{
				"error":     err.Error(),
				"requestID": GetRequestID(r.Context()),
			})
		} else {
			resp.ConversionID = id
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// ingredientSummary is the list form of a record.
type ingredientSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status"`
	Category    string `json:"category,omitempty"`
}

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var out []ingredientSummary
	for _, rec := range s.evaluator.Store().Records() {
		if category != "" && rec.Category != category {
			continue
		}
		out = append(out, ingredientSummary{
			ID:          rec.ID,
			DisplayName: rec.DisplayName,
			Status:      string(rec.Status),
			Category:    rec.Category,
		})
	}
	if out == nil {
		out = []ingredientSummary{}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"ingredients": out,
		"total":       len(out),
	})
}

func (s *Server) handleGetIngredient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	rec, ok := s.evaluator.Store().Lookup(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]any{
			"code":    "INGREDIENT_UNKNOWN",
			"message": "ingredient not found under canonical id or alias",
			"id":      id,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"version":     version.Version,
		"ingredients": s.evaluator.Store().Len(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", logging.Fields{
			"error": err.Error(),
		})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err *hkberrors.HkbError) {
	s.writeJSON(w, status, err)
}
