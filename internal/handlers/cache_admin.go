package handlers

import (
	"net/http"

	"homeinsight-propcache/internal/services"

	"github.com/gin-gonic/gin"
)

// CacheAdminHandler exposes the cache maintenance operations.
type CacheAdminHandler struct {
	cacheService *services.PropertyCacheService
}

func NewCacheAdminHandler(cacheService *services.PropertyCacheService) *CacheAdminHandler {
	return &CacheAdminHandler{cacheService: cacheService}
}

// Stats reports the cache state of the all-properties entry.
func (h *CacheAdminHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cacheService.Stats(c.Request.Context()))
}

// Invalidate removes every property-related cache entry.
func (h *CacheAdminHandler) Invalidate(c *gin.Context) {
	removed := h.cacheService.InvalidateAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"invalidated": removed})
}

// Warm pre-loads the common property queries into the cache.
func (h *CacheAdminHandler) Warm(c *gin.Context) {
	if err := h.cacheService.WarmCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cache warm-up completed"})
}

// ClearPattern removes cache keys matching a caller-supplied pattern.
func (h *CacheAdminHandler) ClearPattern(c *gin.Context) {
	pattern := c.Query("pattern")
	if pattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'pattern' is required"})
		return
	}
	removed := h.cacheService.ClearPattern(c.Request.Context(), pattern)
	c.JSON(http.StatusOK, gin.H{"cleared": removed})
}
