package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stavrosk/wealth-compass/internal/domain"
	"github.com/stavrosk/wealth-compass/internal/modules/health"
)

// handleLiveness handles liveness check requests
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "wealth-compass",
	})
}

// handleGetBehavioralScore returns the most recent stored score record
func (s *Server) handleGetBehavioralScore(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	record, err := s.behavioral.Latest(userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if record == nil {
		s.writeError(w, http.StatusNotFound, "no behavioral score recorded")
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

// handleRefreshBehavioralScore computes and returns a fresh score record
func (s *Server) handleRefreshBehavioralScore(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	record, err := s.behavioral.Score(userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

// handleGetRecommendation returns a risk-tolerance recommendation
func (s *Server) handleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rec, err := s.advisor.Recommend(userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, rec)
}

// handleProjectGoal runs a Monte Carlo projection for a goal
func (s *Server) handleProjectGoal(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	goalID := chi.URLParam(r, "goalID")

	result, err := s.projection.Project(userID, goalID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleGetLatestProjection returns the most recent stored projection
func (s *Server) handleGetLatestProjection(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	result, err := s.projection.LatestResult(goalID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if result == nil {
		s.writeError(w, http.StatusNotFound, "no projection recorded")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleGetState returns the current portfolio health state
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	record, err := s.health.CurrentState(userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

// transitionRequest is the body of a state transition call
type transitionRequest struct {
	State       string   `json:"state"`
	HealthIndex *float64 `json:"health_index,omitempty"`
}

// handleTransition applies a state transition
func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := s.health.Transition(userID, health.State(req.State), req.HealthIndex)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

// handleEvaluate recomputes the health index and steps the state machine
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	record, err := s.evaluator.EvaluateUser(userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

// handleGetSpendingMetric returns the most recent spending metric
func (s *Server) handleGetSpendingMetric(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	metric, err := s.spending.Latest(userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if metric == nil {
		s.writeError(w, http.StatusNotFound, "no spending metric recorded")
		return
	}

	s.writeJSON(w, http.StatusOK, metric)
}

// handleRecomputeSpending computes and returns fresh spending metrics
func (s *Server) handleRecomputeSpending(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	metric, err := s.spending.Recompute(userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, metric)
}

// writeServiceError maps the error taxonomy to HTTP status codes
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error().Err(err).Msg("Request failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
