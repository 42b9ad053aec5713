package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chat-relay/internal/config"
	"chat-relay/internal/gateway"
	apihttp "chat-relay/internal/http"
	"chat-relay/internal/relay"
	"chat-relay/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	store := gateway.NewHTTPClient(cfg.GatewayBaseURL)

	// El limitador de envíos es opcional; sin Redis el relay no regula.
	var limiter service.SendRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisSendRateLimiter(
				redisClient,
				time.Duration(cfg.SendRateWindow)*time.Second,
				cfg.SendRateMax,
			)
		}
		cancel()
	}

	registry := relay.NewRegistry(logger)
	core := relay.NewRelay(logger, registry, store, limiter)
	wsHandler := apihttp.NewWSHandler(logger, registry, core)
	router := apihttp.NewRelayRouter(logger, wsHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting relay",
		zap.String("port", cfg.HTTPPort),
		zap.String("gateway", cfg.GatewayBaseURL),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
