package handlers

import (
	"time"

	"conversation-router/internal/common/logging"
	"conversation-router/internal/config"
	"conversation-router/internal/redis"
	"conversation-router/internal/routing"
)

type Handlers struct {
	engine    *routing.Engine
	config    *config.Config
	logger    logging.Logger
	redis     *redis.Client
	startedAt time.Time
}

func New(engine *routing.Engine, cfg *config.Config, logger logging.Logger, redisClient *redis.Client) *Handlers {
	return &Handlers{
		engine:    engine,
		config:    cfg,
		logger:    logger,
		redis:     redisClient,
		startedAt: time.Now(),
	}
}
