package gateway

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/costwise/costwise/internal/agent"
	"github.com/costwise/costwise/internal/domain"
)

// streamRequest is the single message a streaming client sends after
// connecting.
type streamRequest struct {
	Type         string              `json:"type"`
	Requirements domain.Requirements `json:"requirements"`
}

// streamFrame is one server-to-client message on the analysis stream.
// Event is "step", "done", or "error".
type streamFrame struct {
	Event    string            `json:"event"`
	Step     *domain.StepEvent `json:"step,omitempty"`
	Analysis *domain.Analysis  `json:"analysis,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// handleAnalyzeStream upgrades to WebSocket, reads one analysis request, and
// streams pipeline step events followed by the final result.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var req streamRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.log.Warn().Err(err).Msg("reading stream request failed")
		return
	}

	typ, err := domain.ParseAnalysisType(req.Type)
	if err != nil {
		s.writeStreamFrame(conn, nil, streamFrame{Event: "error", Message: "unknown analysis type: " + req.Type})
		return
	}

	requirements := req.Requirements
	s.applyRequestDefaults(&requirements)

	// Writes come from both the step callback (analysis goroutine) and the
	// final result write, so they share a mutex.
	var writeMu sync.Mutex

	crew := agent.NewCrew(s.tools, s.log, agent.WithStepCallback(func(e domain.StepEvent) {
		s.writeStreamFrame(conn, &writeMu, streamFrame{Event: "step", Step: &e})
	}))

	ctx, cancel := context.WithTimeout(r.Context(), analysisTimeout)
	defer cancel()

	analysis := s.runStreamAnalysis(ctx, crew, typ, requirements)
	if analysis.Status == domain.StatusFailed {
		s.writeStreamFrame(conn, &writeMu, streamFrame{Event: "error", Message: analysis.Recommendation, Analysis: analysis})
	} else {
		s.writeStreamFrame(conn, &writeMu, streamFrame{Event: "done", Analysis: analysis})
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// runStreamAnalysis mirrors runAnalysis but uses the per-connection crew so
// step events reach the stream.
func (s *Server) runStreamAnalysis(ctx context.Context, crew *agent.Crew, typ domain.AnalysisType, req domain.Requirements) *domain.Analysis {
	analysis := &domain.Analysis{
		ID:           uuid.NewString(),
		Type:         typ,
		Requirements: req,
		CreatedAt:    time.Now().UTC(),
	}

	result, err := crew.Analyze(ctx, typ, req)
	if err != nil {
		s.log.Error().Err(err).Str("type", string(typ)).Msg("streamed analysis failed")
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

func (s *Server) writeStreamFrame(conn *websocket.Conn, mu *sync.Mutex, frame streamFrame) {
	if mu != nil {
		mu.Lock()
		defer mu.Unlock()
	}
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(frame); err != nil {
		s.log.Debug().Err(err).Msg("stream write failed")
	}
}
