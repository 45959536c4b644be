package app

import (
	"strconv"
	"time"

	"conversation-router/internal/common/cache"
	"conversation-router/internal/common/logging"
	"conversation-router/internal/redis"
)

func (app *App) initializeCache() error {
	if !app.Config.CacheEnabled {
		app.Logger.Info("Condition Cache: Disabled")
		return nil
	}

	// Convert config values
	cacheTTL, _ := time.ParseDuration(app.Config.CacheTTL)

	cacheConfig := cache.DefaultConfig()
	cacheConfig.TTL = cacheTTL

	if app.Config.CacheBackend == "redis" {
		redisDB, _ := strconv.Atoi(app.Config.RedisDB)
		redisPoolSize, _ := strconv.Atoi(app.Config.RedisPoolSize)

		redisConfig := &redis.Config{
			Address:  app.Config.RedisAddress,
			Password: app.Config.RedisPassword,
			DB:       redisDB,
			PoolSize: redisPoolSize,
		}

		redisClient, err := redis.NewClient(redisConfig)
		if err != nil {
			return err
		}

		app.RedisClient = redisClient
		cacheConfig.Type = cache.TypeRedis
		cacheConfig.RedisClient = redisClient.Underlying()
		app.Logger.Info("Condition Cache: Redis",
			logging.Field{Key: "address", Value: app.Config.RedisAddress},
			logging.Field{Key: "ttl", Value: cacheTTL.String()},
		)
	} else {
		app.Logger.Info("Condition Cache: Local",
			logging.Field{Key: "ttl", Value: cacheTTL.String()},
		)
	}

	backend, err := cache.New(cacheConfig)
	if err != nil {
		return err
	}

	app.Cache = backend
	return nil
}
