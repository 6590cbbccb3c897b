package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/llm"
	"github.com/jonathan/site-generator/internal/server/middleware"
)

// handleGenerateContent drafts section copy with the language model.
// The prompt already describes the expected JSON; the model output is returned as is.
func (s *Server) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		s.writeError(w, &ErrUnavailable{Feature: "content generation"})
		return
	}

	var req content.GenerateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validateRequest(req); err != nil {
		s.writeError(w, err)
		return
	}

	subject, _ := middleware.GetSubject(r)
	logger := s.logger.With(
		zap.String("subject", subject),
		zap.String("business_type", req.BusinessType),
		zap.String("language", req.Language),
	)

	text, err := s.llm.GenerateJSON(r.Context(), req.Prompt, llm.TierStandard)
	if err != nil {
		logger.Warn("model call failed", zap.Error(err))
		s.writeError(w, &ErrUpstream{Cause: err})
		return
	}

	raw := json.RawMessage(llm.CleanJSONBlock(text))
	if !json.Valid(raw) {
		logger.Warn("model returned invalid JSON", zap.Int("bytes", len(text)))
		s.writeError(w, &ErrUpstream{Cause: fmt.Errorf("model returned invalid JSON")})
		return
	}

	logger.Debug("content generated", zap.String("model", s.llm.GetModel(llm.TierStandard)))
	s.jsonResponse(w, http.StatusOK, content.GenerateResponse{Content: raw})
}

// handleGenerateUnavailable answers the generation route when no signing secret is configured.
func (s *Server) handleGenerateUnavailable(w http.ResponseWriter, _ *http.Request) {
	s.writeError(w, &ErrUnavailable{Feature: "content generation"})
}
