package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/middleware"
	"blog-backend/pkg/container"
)

// HealthCheck reports whether one backing service is usable.
type HealthCheck func(ctx context.Context) error

// SetupRouter registers every route on a fresh gin engine.
func SetupRouter(c *container.Container) *gin.Engine {
	checks := map[string]HealthCheck{
		"database": c.DB.HealthCheck,
		"redis":    c.Redis.HealthCheck,
	}
	return newRouter(c, checks)
}

func newRouter(c *container.Container, checks map[string]HealthCheck) *gin.Engine {
	router := gin.New()

	// ========================================
	// GLOBAL MIDDLEWARE
	// ========================================
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(c.Metrics))

	router.GET("/health", healthCheckHandler(c.Config.App.Version, checks))
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	auth := middleware.AuthMiddleware(c.JWTManager)

	// ========================================
	// ACCOUNTS
	// ========================================
	router.POST("/register/", c.UserHandler.Register)
	router.GET("/activate/:code/", c.UserHandler.Activate)
	router.POST("/login/", c.UserHandler.Login)
	router.POST("/refresh/", c.UserHandler.Refresh)

	// ========================================
	// TAXONOMY
	// ========================================
	router.GET("/categories/", c.CategoryHandler.ListCategories)
	router.GET("/tags/", c.TagHandler.ListTags)

	// ========================================
	// POSTS
	// ========================================
	posts := router.Group("/posts")
	{
		posts.GET("/", c.PostHandler.ListPosts)
		posts.GET("/:slug/", c.PostHandler.GetPost)

		owned := posts.Group("", auth)
		{
			owned.POST("/", c.PostHandler.CreatePost)
			owned.PATCH("/:slug/", c.PostHandler.UpdatePost)
			owned.DELETE("/:slug/", c.PostHandler.DeletePost)
		}
	}

	return router
}

func healthCheckHandler(version string, checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		services := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				services[name] = "unhealthy"
				status = http.StatusServiceUnavailable
				continue
			}
			services[name] = "healthy"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		c.JSON(status, gin.H{
			"status":    overall,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   version,
			"services":  services,
		})
	}
}
