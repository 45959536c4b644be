package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"conversation-router/internal/models"
	"conversation-router/internal/routing"
)

// Conversation routing handlers

// RouteConversation evaluates a conversation against the configured rule set
// @Summary Route a conversation
// @Description Evaluates the conversation against all enabled routing rules in priority order and returns the first match
// @Tags routing
// @Accept json
// @Produce json
// @Param request body models.RouteRequest true "Conversation snapshot with optional handoff decision and metadata"
// @Success 200 {object} models.RouteResponse "Routing outcome"
// @Failure 400 {string} string "Invalid JSON or missing conversation"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/route [post]
func (h *Handlers) RouteConversation(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	var req models.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	result := h.engine.Evaluate(r.Context(), req.Conversation, req.Decision, req.Metadata)

	response := models.RouteResponse{
		Matched: result != nil,
		Result:  result,
	}
	if result == nil {
		response.DefaultQueue = h.engine.Config().DefaultFallback
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// TestRule dry-runs a single rule against a conversation
// @Summary Test a routing rule
// @Description Evaluates every condition of the named rule against the conversation without executing actions
// @Tags routing
// @Accept json
// @Produce json
// @Param name path string true "Rule name"
// @Param request body models.RouteRequest true "Conversation snapshot with optional handoff decision and metadata"
// @Success 200 {object} routing.RuleTestResult "Per-condition diagnostics"
// @Failure 400 {string} string "Invalid JSON or missing conversation"
// @Failure 404 {string} string "Rule not found"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/rules/{name}/test [post]
func (h *Handlers) TestRule(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	vars := mux.Vars(r)
	name := vars["name"]

	var req models.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.engine.TestRule(r.Context(), name, req.Conversation, req.Decision, req.Metadata)
	if err != nil {
		if errors.Is(err, routing.ErrRuleNotFound) {
			http.Error(w, fmt.Sprintf("Rule not found: %v", err), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Rule test failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HealthCheck returns the health status of the application
// @Summary Health check
// @Description Returns the health status of the routing engine and its cache backend
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Health status"
// @Failure 503 {string} string "Engine not initialized"
// @Router /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(h.startedAt).String(),
	}

	if h.engine != nil {
		summary := h.engine.Summary()
		status["engine_status"] = "healthy"
		status["rules_total"] = summary.TotalRules
		status["rules_enabled"] = summary.EnabledRules
	} else {
		status["status"] = "unhealthy"
		status["engine_status"] = "not_initialized"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	// Check cache backend health if Redis is configured
	if h.redis != nil {
		if err := h.redis.Health(); err != nil {
			status["cache_status"] = "unhealthy"
			status["cache_error"] = err.Error()
			if status["status"] == "healthy" {
				status["status"] = "degraded"
			}
		} else {
			status["cache_status"] = "healthy"
		}
	} else {
		status["cache_status"] = "local"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
