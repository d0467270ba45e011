package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/costwise/costwise/internal/catalog"
	"github.com/costwise/costwise/internal/domain"
)

// defaultHistoryLimit caps /api/analysis/history when no limit is given.
const defaultHistoryLimit = 50

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"version":       s.version,
		"uptimeSeconds": int(time.Since(s.startedAt).Seconds()),
	})
}

func (s *Server) handleProvidersInfo(w http.ResponseWriter, r *http.Request) {
	providers := catalog.Providers()
	writeJSON(w, http.StatusOK, map[string]any{
		"providers": providers,
		"live": map[string]bool{
			"aws": s.awsLive,
			"gcp": s.gcpLive,
		},
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": catalog.Templates()})
}

// applyRequestDefaults fills empty requirement fields, letting the configured
// TCO horizon take precedence over the built-in default.
func (s *Server) applyRequestDefaults(req *domain.Requirements) {
	if req.TimeHorizonMonths == 0 {
		req.TimeHorizonMonths = s.cfg.Analysis.TimeHorizonMonths
	}
	req.ApplyDefaults()
}

// handleAnalyze runs the pipeline synchronously and persists the outcome.
// The analysis type comes from the last path segment.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	typ, err := analysisTypeFromPath(r.URL.Path)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	var req domain.Requirements
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid_request", "malformed requirements: "+err.Error())
			return
		}
	}
	s.applyRequestDefaults(&req)

	ctx, cancel := context.WithTimeout(r.Context(), analysisTimeout)
	defer cancel()

	analysis := s.runAnalysis(ctx, typ, req)
	if analysis.Status == domain.StatusFailed {
		writeJSON(w, http.StatusBadGateway, analysis)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// runAnalysis executes the crew, records metrics, and persists the run.
func (s *Server) runAnalysis(ctx context.Context, typ domain.AnalysisType, req domain.Requirements) *domain.Analysis {
	analysis := &domain.Analysis{
		ID:           uuid.NewString(),
		Type:         typ,
		Requirements: req,
		CreatedAt:    time.Now().UTC(),
	}

	result, err := s.crew.Analyze(ctx, typ, req)
	if err != nil {
		s.log.Error().Err(err).Str("type", string(typ)).Msg("analysis failed")
		analysis.Status = domain.StatusFailed
		analysis.Recommendation = err.Error()
		s.metrics.ObserveAnalysis(string(typ), "none", string(domain.StatusFailed))
	} else {
		analysis.Status = domain.StatusCompleted
		analysis.Result = result
		analysis.Recommendation = result.Recommendation.Provider
		analysis.SavingsPercent = savingsPercent(result)
		s.metrics.ObserveAnalysis(string(typ), result.Recommendation.Provider, string(domain.StatusCompleted))
	}

	if err := s.history.Put(analysis); err != nil {
		s.log.Error().Err(err).Str("id", analysis.ID).Msg("persisting analysis failed")
	}
	return analysis
}

func savingsPercent(result *domain.AnalysisResult) float64 {
	if result.TCO != nil {
		return result.TCO.SavingsPercent
	}
	if result.Storage != nil {
		return result.Storage.SavingsPercent
	}
	return 0
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = n
	}

	summaries, err := s.history.List(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("listing history failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "listing history failed")
		return
	}
	if summaries == nil {
		summaries = []domain.AnalysisSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": summaries})
}

func (s *Server) handleAnalysisByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	analysis, err := s.history.Get(id)
	if errors.Is(err, domain.ErrAnalysisNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no analysis with id "+id)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("loading analysis failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "loading analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func analysisTypeFromPath(path string) (domain.AnalysisType, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return domain.ParseAnalysisType(parts[len(parts)-1])
}
