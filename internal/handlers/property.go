package handlers

import (
	"net/http"
	"strconv"
	"time"

	"homeinsight-propcache/internal/models"
	"homeinsight-propcache/internal/repositories"
	"homeinsight-propcache/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PropertyHandler struct {
	cacheService *services.PropertyCacheService
	store        repositories.PropertyStore
}

func NewPropertyHandler(cacheService *services.PropertyCacheService, store repositories.PropertyStore) *PropertyHandler {
	return &PropertyHandler{cacheService: cacheService, store: store}
}

// ListProperties returns every property. It serves from the cache when
// possible and falls back to a direct store read if the cache path fails.
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	properties, err := h.cacheService.GetAllWithFallback(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties, "count": len(properties)})
}

// SearchByLocation returns properties whose location contains the query text.
func (h *PropertyHandler) SearchByLocation(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'location' is required"})
		return
	}

	properties, err := h.cacheService.GetByLocation(c.Request.Context(), location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties, "count": len(properties)})
}

// SearchByPriceRange returns properties priced within [min, max].
func (h *PropertyHandler) SearchByPriceRange(c *gin.Context) {
	min, err := strconv.ParseFloat(c.DefaultQuery("min", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'min' parameter"})
		return
	}
	max, err := strconv.ParseFloat(c.Query("max"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'max' parameter"})
		return
	}
	if min > max {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'min' must not exceed 'max'"})
		return
	}

	properties, err := h.cacheService.GetByPriceRange(c.Request.Context(), min, max)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": properties, "count": len(properties)})
}

// CreateProperty inserts a listing and invalidates the property cache so the
// next read sees it.
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if property.ID == "" {
		property.ID = uuid.NewString()
	}
	if property.CreatedAt.IsZero() {
		property.CreatedAt = time.Now().UTC()
	}

	if err := h.store.Create(c.Request.Context(), &property); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.cacheService.InvalidateAll(c.Request.Context())

	c.JSON(http.StatusCreated, property)
}
