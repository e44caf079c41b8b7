package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	"blog-backend/internal/infrastructure/queue"
)

// checkRedis fails fast when the broker is unreachable; asynq would otherwise retry silently.
func checkRedis(ctx context.Context, cfg *config.Config) error {
	log.Info().Str("addr", cfg.Redis.Host).Msg("[Startup] Checking Redis connection")

	rc := queue.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	defer func() {
		_ = rc.Close()
	}()

	if err := rc.Connect(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	log.Info().
		Str("env", cfg.App.Environment).
		Str("smtp", fmt.Sprintf("%s:%d", cfg.Email.SMTPHost, cfg.Email.SMTPPort)).
		Msg("[Startup] Worker dependencies ready")
	return nil
}
