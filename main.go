package main

import (
	"log/slog"
	"os"

	"bayon/bot"
	"bayon/config"
	"bayon/controllers"
	dbpkg "bayon/db"
	"bayon/dedup"
	"bayon/messenger"
	"bayon/router"
	"bayon/secret"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := os.Getenv("CONFIG")
	if configPath == "" {
		configPath = "config/config.json"
	}
	cfg := config.Get(configPath)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	box, err := secret.NewBox([]byte(cfg.Security.TokenKey))
	if err != nil {
		logger.Error("invalid token key, refusing to start", "error", err)
		os.Exit(1)
	}

	dbpkg.SetConfigurations(cfg)
	db, err := dbpkg.Connect()
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// redis is an optional fast path; without it the unique index on
	// platform message ids still guarantees idempotency
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis url", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
	}

	client := messenger.NewClient(cfg.Messenger.ApiVersion)
	retrier := messenger.NewRetrier(logger)
	gateway := bot.NewGateway(db, logger)
	responder := bot.NewResponder(db, logger, box, client, retrier, gateway)
	processor := bot.NewProcessor(db, logger, dedup.New(redisClient), responder)

	controllers.Setup(cfg, processor, box, logger)

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(db))
	router.Initialize(r)

	logger.Info("bayon listening", "port", cfg.ApiPort)
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
