package app

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"conversation-router/internal/common/logging"
	"conversation-router/internal/handlers"
	"conversation-router/internal/server"
)

// RunServer starts the HTTP server with all handlers configured
func (app *App) RunServer() (*server.Server, http.Handler) {
	// Initialize handlers
	h := handlers.New(app.Engine, app.Config, logging.GetGlobalLogger(), app.RedisClient)

	// Set up routes
	router := mux.NewRouter()
	SetupRoutes(router, h)

	// Create server
	srv := server.New(router, app.Config)

	return srv, router
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown(ctx context.Context) error {
	// Stop the stats reporter before the server drains
	if app.Reporter != nil {
		app.Reporter.Stop()
		app.Logger.Info("Stats reporter stopped")
	}
	return nil
}
