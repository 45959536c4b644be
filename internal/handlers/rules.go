package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"conversation-router/internal/models"
	"conversation-router/internal/routing"
)

// Routing rule management handlers

// GetRules returns all routing rules
// @Summary Get all routing rules
// @Description Returns every configured routing rule in priority order, highest first
// @Tags rules
// @Produce json
// @Success 200 {array} models.RoutingRuleAPI "List of routing rules"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/rules [get]
func (h *Handlers) GetRules(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	rules := h.engine.Rules()

	// Convert to API models
	apiRules := make([]*models.RoutingRuleAPI, len(rules))
	for i, rule := range rules {
		apiRules[i] = models.ToRoutingRuleAPI(rule)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiRules)
}

// GetRule returns a specific routing rule
// @Summary Get routing rule
// @Description Returns a specific routing rule by name
// @Tags rules
// @Produce json
// @Param name path string true "Rule name"
// @Success 200 {object} models.RoutingRuleAPI "Routing rule"
// @Failure 404 {string} string "Rule not found"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/rules/{name} [get]
func (h *Handlers) GetRule(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	vars := mux.Vars(r)
	name := vars["name"]

	rule, ok := h.engine.Rule(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Rule not found: %s", name), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.ToRoutingRuleAPI(rule))
}

// CreateRule creates a new routing rule
// @Summary Create routing rule
// @Description Creates a new routing rule with conditions and actions
// @Tags rules
// @Accept json
// @Produce json
// @Param rule body models.RuleRequest true "Routing rule definition"
// @Success 201 {object} models.RoutingRuleAPI "Created routing rule"
// @Failure 400 {string} string "Invalid JSON or rule validation failed"
// @Failure 409 {string} string "Rule name already exists"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/rules [post]
func (h *Handlers) CreateRule(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	var req models.RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	rule, err := req.ToRoutingRule()
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid rule: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.engine.AddRule(r.Context(), rule); err != nil {
		if errors.Is(err, routing.ErrDuplicateRule) {
			http.Error(w, fmt.Sprintf("Failed to create rule: %v", err), http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to create rule: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.ToRoutingRuleAPI(rule))
}

// UpdateRule replaces an existing routing rule
// @Summary Update routing rule
// @Description Replaces the named rule's definition, preserving its creation time and enabled state
// @Tags rules
// @Accept json
// @Produce json
// @Param name path string true "Rule name"
// @Param rule body models.RuleRequest true "Routing rule definition"
// @Success 200 {object} models.RoutingRuleAPI "Updated routing rule"
// @Failure 400 {string} string "Invalid JSON or rule validation failed"
// @Failure 404 {string} string "Rule not found"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/rules/{name} [put]
func (h *Handlers) UpdateRule(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	vars := mux.Vars(r)
	name := vars["name"]

	var req models.RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		req.Name = name
	}
	if req.Name != name {
		http.Error(w, "Rule name in path and body do not match", http.StatusBadRequest)
		return
	}

	rule, err := req.ToRoutingRule()
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid rule: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.engine.UpdateRule(r.Context(), rule); err != nil {
		if errors.Is(err, routing.ErrRuleNotFound) {
			http.Error(w, fmt.Sprintf("Failed to update rule: %v", err), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to update rule: %v", err), http.StatusBadRequest)
		return
	}

	updated, _ := h.engine.Rule(name)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.ToRoutingRuleAPI(updated))
}

// DeleteRule removes a routing rule
// @Summary Delete routing rule
// @Description Removes the named routing rule from the configuration
// @Tags rules
// @Param name path string true "Rule name"
// @Success 204 "No Content"
// @Failure 404 {string} string "Rule not found"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/rules/{name} [delete]
func (h *Handlers) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	vars := mux.Vars(r)
	name := vars["name"]

	if !h.engine.RemoveRule(r.Context(), name) {
		http.Error(w, fmt.Sprintf("Rule not found: %s", name), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EnableRule enables a routing rule
// @Summary Enable routing rule
// @Description Enables the named rule so it participates in evaluation again
// @Tags rules
// @Produce json
// @Param name path string true "Rule name"
// @Success 200 {object} models.RoutingRuleAPI "Enabled routing rule"
// @Failure 404 {string} string "Rule not found"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/rules/{name}/enable [post]
func (h *Handlers) EnableRule(w http.ResponseWriter, r *http.Request) {
	h.setRuleEnabled(w, r, true)
}

// DisableRule disables a routing rule
// @Summary Disable routing rule
// @Description Disables the named rule; it is kept in the configuration but never evaluated
// @Tags rules
// @Produce json
// @Param name path string true "Rule name"
// @Success 200 {object} models.RoutingRuleAPI "Disabled routing rule"
// @Failure 404 {string} string "Rule not found"
// @Failure 503 {string} string "Engine not initialized"
// @Router /api/rules/{name}/disable [post]
func (h *Handlers) DisableRule(w http.ResponseWriter, r *http.Request) {
	h.setRuleEnabled(w, r, false)
}

func (h *Handlers) setRuleEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	if h.engine == nil {
		http.Error(w, "Engine not initialized", http.StatusServiceUnavailable)
		return
	}

	vars := mux.Vars(r)
	name := vars["name"]

	var err error
	if enabled {
		err = h.engine.EnableRule(r.Context(), name)
	} else {
		err = h.engine.DisableRule(r.Context(), name)
	}
	if err != nil {
		if errors.Is(err, routing.ErrRuleNotFound) {
			http.Error(w, fmt.Sprintf("Rule not found: %s", name), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to update rule: %v", err), http.StatusBadRequest)
		return
	}

	rule, _ := h.engine.Rule(name)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.ToRoutingRuleAPI(rule))
}
