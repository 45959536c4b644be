package app

import (
	"github.com/gorilla/mux"

	"conversation-router/internal/handlers"
	"conversation-router/internal/middleware"
)

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers) {
	// Tag every request with an ID, then log it
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Conversation routing
	api.HandleFunc("/route", h.RouteConversation).Methods("POST")

	// Rule management endpoints
	api.HandleFunc("/rules", h.GetRules).Methods("GET")
	api.HandleFunc("/rules", h.CreateRule).Methods("POST")
	api.HandleFunc("/rules/{name}", h.GetRule).Methods("GET")
	api.HandleFunc("/rules/{name}", h.UpdateRule).Methods("PUT")
	api.HandleFunc("/rules/{name}", h.DeleteRule).Methods("DELETE")
	api.HandleFunc("/rules/{name}/enable", h.EnableRule).Methods("POST")
	api.HandleFunc("/rules/{name}/disable", h.DisableRule).Methods("POST")
	api.HandleFunc("/rules/{name}/test", h.TestRule).Methods("POST")

	// Configuration endpoints
	api.HandleFunc("/config", h.GetConfig).Methods("GET")
	api.HandleFunc("/config/validate", h.ValidateConfig).Methods("POST")

	// Metrics and profiling endpoints
	api.HandleFunc("/metrics", h.GetMetrics).Methods("GET")
	api.HandleFunc("/metrics/reset", h.ResetMetrics).Methods("POST")
	api.HandleFunc("/profiles", h.GetProfiles).Methods("GET")

	// Cache management endpoints
	api.HandleFunc("/cache/clear", h.ClearCache).Methods("POST")
}
