package app

import (
	"time"

	"conversation-router/internal/common/logging"
	"conversation-router/internal/routing"
)

func (app *App) initializeEngine() error {
	// Convert config values
	cacheTTL, _ := time.ParseDuration(app.Config.CacheTTL)
	maxEvaluationTime, _ := time.ParseDuration(app.Config.MaxEvaluationTime)

	routingConfig := routing.NewRoutingConfig().
		WithCacheEnabled(app.Config.CacheEnabled).
		WithCacheTTL(cacheTTL).
		WithDefaultFallback(app.Config.DefaultFallbackQueue).
		WithLogDecisions(app.Config.LogDecisions)
	routingConfig.MaxEvaluationTime = maxEvaluationTime

	opts := []routing.EngineOption{
		routing.WithLogger(logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "engine"})),
	}
	if app.Cache != nil {
		opts = append(opts, routing.WithCache(app.Cache))
	}

	engine, err := routing.NewEngine(routingConfig, opts...)
	if err != nil {
		return err
	}

	app.Engine = engine
	app.Logger.Info("Routing Engine: Started",
		logging.Field{Key: "default_fallback", Value: app.Config.DefaultFallbackQueue},
		logging.Field{Key: "max_evaluation_time", Value: maxEvaluationTime.String()},
	)
	return nil
}
