package app

import (
	"conversation-router/internal/common/cache"
	"conversation-router/internal/common/logging"
	"conversation-router/internal/config"
	"conversation-router/internal/redis"
	"conversation-router/internal/routing"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	Engine      *routing.Engine
	Cache       cache.Cache
	RedisClient *redis.Client
	Reporter    *StatsReporter
	Logger      logging.Logger
}

// New creates a new application instance with all dependencies
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	// Initialize components in order of dependency
	if err := app.initializeCache(); err != nil {
		// Redis is optional, the engine falls back to its in-process cache
		app.Logger.Warn("Cache initialization failed, falling back to local cache",
			logging.Field{Key: "error", Value: err.Error()})
	}

	if err := app.initializeEngine(); err != nil {
		return nil, err
	}

	if err := app.initializeStatsReporter(); err != nil {
		return nil, err
	}

	return app, nil
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.Reporter != nil {
		app.Reporter.Stop()
	}
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
