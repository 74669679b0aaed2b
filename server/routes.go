package server

import (
	"fmt"
	"net/http"
	"time"

	"releasetracker/app/health"
	"releasetracker/app/metrics"
	"releasetracker/app/release"
	"releasetracker/utilities/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func setupGin(env config.Environment) (r *gin.Engine) {
	switch env {
	case config.Production, config.Staging:
		gin.SetMode(gin.ReleaseMode)
		r = gin.New()
		err := r.SetTrustedProxies(nil)
		if err != nil {
			panic(fmt.Sprintf("Failed to set trusted proxies: %v\n", err))
		}
	case config.Testing, config.CI:
		gin.SetMode(gin.ReleaseMode)
		r = gin.New()
	case config.Development:
		gin.SetMode(gin.DebugMode)
		r = gin.New()
	default:
		panic(fmt.Sprintf("Invalid environment: %s", env))
	}
	return
}

func corsConfig(c *config.Config) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(c.AllowedOrigins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = c.AllowedOrigins
		conf.AllowCredentials = true
	}
	return conf
}

func InitRoutes(c *config.Config, releaseService release.ReleaseService, healthService health.HealthService) *gin.Engine {
	r := setupGin(c.Env)
	m := metrics.New()

	r.Use(RequestID(), RequestLogger(), Recovery(), m.Middleware(), cors.New(corsConfig(c)))
	r.NoRoute(NotFound)

	r.GET("/health", healthService.GetHealth)
	r.GET("/metrics", m.Handler())

	// Releases routes
	releases := r.Group("/api/releases")
	releases.GET("", releaseService.GetReleases)
	releases.GET("/:id", releaseService.GetRelease)
	releases.POST("", releaseService.CreateRelease)
	releases.PUT("/:id", releaseService.UpdateRelease)
	releases.DELETE("/:id", releaseService.DeleteRelease)

	return r
}
