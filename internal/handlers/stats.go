package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"conversation-router/internal/models"
)

// Engine statistics and administration handlers

// GetMetrics returns engine counters
// @Summary Get engine metrics
// @Description Returns evaluation, match, cache, and action counters for the routing engine
// @Tags statistics
// @Produce json
// @Success 200 {object} routing.EngineMetrics "Engine metrics"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/metrics [get]
func (h *Handlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	metrics := h.engine.Metrics()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}

// ResetMetrics zeroes the engine counters
// @Summary Reset engine metrics
// @Description Zeroes every engine counter, typically after a deploy or load test
// @Tags statistics
// @Produce json
// @Success 200 {object} map[string]string "Reset confirmation"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/metrics/reset [post]
func (h *Handlers) ResetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	h.engine.ResetMetrics()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "metrics reset"})
}

// GetProfiles returns per-rule timing profiles
// @Summary Get rule profiles
// @Description Returns per-rule evaluation timing, sorted by total time spent
// @Tags statistics
// @Produce json
// @Success 200 {array} routing.RuleProfile "Rule timing profiles"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/profiles [get]
func (h *Handlers) GetProfiles(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	profiles := h.engine.ProfilerStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}

// GetConfig returns the configuration summary
// @Summary Get configuration summary
// @Description Returns rule counts, cache settings, and the per-rule summary in priority order
// @Tags configuration
// @Produce json
// @Success 200 {object} routing.ConfigSummary "Configuration summary"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/config [get]
func (h *Handlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	summary := h.engine.Summary()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// ValidateConfig checks the live configuration for mistakes
// @Summary Validate configuration
// @Description Reports duplicate rule names, invalid rules, and rules whose assignment actions overwrite each other
// @Tags configuration
// @Produce json
// @Success 200 {object} models.ValidationResponse "Validation findings"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/config/validate [post]
func (h *Handlers) ValidateConfig(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	findings := h.engine.ValidateConfiguration()

	valid := true
	for _, finding := range findings {
		if finding.Severity == "error" {
			valid = false
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.ValidationResponse{
		Valid:    valid,
		Findings: findings,
	})
}

// ClearCache drops every cached condition result
// @Summary Clear the condition cache
// @Description Drops all cached condition results so the next evaluations recompute from scratch
// @Tags configuration
// @Produce json
// @Success 200 {object} map[string]string "Clear confirmation"
// @Failure 500 {string} string "Cache clear failed"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/cache/clear [post]
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	if err := h.engine.ClearCache(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("Failed to clear cache: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "cache cleared"})
}
