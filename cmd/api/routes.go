package main

import (
	"net/http"

	"homeinsight-propcache/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *App) setupRoutes() {
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := a.Router.Group("/api")
	{
		properties := api.Group("/properties")
		{
			properties.GET("", a.propertyHandler.ListProperties)
			properties.GET("/search", a.propertyHandler.SearchByLocation)
			properties.GET("/price-range", a.propertyHandler.SearchByPriceRange)
		}

		// Mutating endpoints require an operator token.
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.Config.JWT.Secret))
		{
			protected.POST("/properties", a.propertyHandler.CreateProperty)
			protected.GET("/cache/stats", a.cacheHandler.Stats)
			protected.POST("/cache/invalidate", a.cacheHandler.Invalidate)
			protected.POST("/cache/warm", a.cacheHandler.Warm)
			protected.POST("/cache/clear", a.cacheHandler.ClearPattern)
		}
	}
}
