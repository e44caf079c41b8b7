package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"blog-backend/pkg/logger"
)

func main() {
	// .env is optional; real deployments inject the environment directly
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	env := getenv("APP_ENV", "development")
	logger.Init(env, getenv("LOG_LEVEL", "info"))

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	Serve()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
