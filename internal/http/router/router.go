package router

import (
	"context"
	"net/http"
	"time"

	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New builds the Gin engine: platform middleware, health endpoint, and the
// routes of every registered domain module under /api/v1.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(app.Logger))
	engine.Use(cors.New(corsConfig(app)))

	engine.GET("/api/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if app.Health != nil {
			if err := app.Health.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routerCtx := &apphttp.RouterContext{
		Engine: engine,
		V1:     engine.Group("/api/v1"),
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Info("module routes registered", "module", module.Name())
	}

	return engine
}

func corsConfig(app *apphttp.App) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")

	if app.Config.GetCORSAllowAll() {
		cfg.AllowAllOrigins = true
		return cfg
	}

	origins := app.Config.GetCORSOrigins()
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true

	return cfg
}
