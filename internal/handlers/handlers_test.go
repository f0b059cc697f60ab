package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"
	"time"

	"homeinsight-propcache/internal/models"
	"homeinsight-propcache/internal/services"
	"homeinsight-propcache/pkg/logger"

	"github.com/gin-gonic/gin"
)

type memBackend struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMemBackend() *memBackend {
	return &memBackend{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (b *memBackend) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := b.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (b *memBackend) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	b.entries[key] = data
	b.ttls[key] = ttl
	return nil
}

func (b *memBackend) Delete(ctx context.Context, keys ...string) (int64, error) {
	var removed int64
	for _, key := range keys {
		if _, ok := b.entries[key]; ok {
			delete(b.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (b *memBackend) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	for key := range b.entries {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (b *memBackend) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	ttl, ok := b.ttls[key]
	return ttl, ok, nil
}

type memStore struct {
	properties []models.Property
}

func (s *memStore) FindAllByNewest(ctx context.Context) ([]models.Property, error) {
	return s.properties, nil
}

func (s *memStore) FindByLocation(ctx context.Context, location string) ([]models.Property, error) {
	var out []models.Property
	for _, p := range s.properties {
		if strings.Contains(strings.ToLower(p.Location), strings.ToLower(location)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) FindByPriceRange(ctx context.Context, min, max float64) ([]models.Property, error) {
	var out []models.Property
	for _, p := range s.properties {
		if p.Price >= min && p.Price <= max {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) FindAll(ctx context.Context) ([]models.Property, error) {
	return s.properties, nil
}

func (s *memStore) Create(ctx context.Context, property *models.Property) error {
	s.properties = append(s.properties, *property)
	return nil
}

func newTestRouter(store *memStore, backend *memBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewPropertyCacheService(store, backend, logger.New(io.Discard, logger.ERROR))
	propertyHandler := NewPropertyHandler(svc, store)
	cacheHandler := NewCacheAdminHandler(svc)

	r := gin.New()
	r.GET("/api/properties", propertyHandler.ListProperties)
	r.GET("/api/properties/search", propertyHandler.SearchByLocation)
	r.GET("/api/properties/price-range", propertyHandler.SearchByPriceRange)
	r.POST("/api/properties", propertyHandler.CreateProperty)
	r.GET("/api/cache/stats", cacheHandler.Stats)
	r.POST("/api/cache/invalidate", cacheHandler.Invalidate)
	r.POST("/api/cache/warm", cacheHandler.Warm)
	r.POST("/api/cache/clear", cacheHandler.ClearPattern)
	return r
}

func testStore() *memStore {
	return &memStore{properties: []models.Property{
		{ID: "p1", Name: "Brownstone", Location: "New York", Price: 850000, CreatedAt: time.Now().UTC()},
		{ID: "p2", Name: "Loft", Location: "Chicago", Price: 420000, CreatedAt: time.Now().UTC()},
	}}
}

func doRequest(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListProperties(t *testing.T) {
	r := newTestRouter(testStore(), newMemBackend())

	w := doRequest(r, http.MethodGet, "/api/properties", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data  []models.Property `json:"data"`
		Count int               `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Count != 2 || len(resp.Data) != 2 {
		t.Errorf("count = %d, data = %d, want 2", resp.Count, len(resp.Data))
	}
}

func TestSearchByLocationRequiresParam(t *testing.T) {
	r := newTestRouter(testStore(), newMemBackend())

	if w := doRequest(r, http.MethodGet, "/api/properties/search", ""); w.Code != http.StatusBadRequest {
		t.Errorf("status without location = %d, want 400", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/properties/search?location=chicago", ""); w.Code != http.StatusOK {
		t.Errorf("status with location = %d, want 200", w.Code)
	}
}

func TestSearchByPriceRangeValidation(t *testing.T) {
	r := newTestRouter(testStore(), newMemBackend())

	if w := doRequest(r, http.MethodGet, "/api/properties/price-range?min=100&max=bogus", ""); w.Code != http.StatusBadRequest {
		t.Errorf("status with bad max = %d, want 400", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/properties/price-range?min=900000&max=100", ""); w.Code != http.StatusBadRequest {
		t.Errorf("status with min > max = %d, want 400", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/properties/price-range?min=0&max=500000", ""); w.Code != http.StatusOK {
		t.Errorf("status with valid range = %d, want 200", w.Code)
	}
}

func TestCreatePropertyInvalidatesCache(t *testing.T) {
	store := testStore()
	backend := newMemBackend()
	r := newTestRouter(store, backend)

	// Populate the cache, then create a listing.
	if w := doRequest(r, http.MethodGet, "/api/properties", ""); w.Code != http.StatusOK {
		t.Fatalf("warm-up request status = %d", w.Code)
	}
	if _, ok := backend.entries["all_properties"]; !ok {
		t.Fatal("all_properties entry missing after list request")
	}

	body := `{"name":"Cottage","location":"Seattle","price":389000}`
	w := doRequest(r, http.MethodPost, "/api/properties", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", w.Code)
	}

	var created models.Property
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid create response: %v", err)
	}
	if created.ID == "" {
		t.Error("created property has no generated id")
	}
	if _, ok := backend.entries["all_properties"]; ok {
		t.Error("all_properties entry still cached after create")
	}
}

func TestCacheAdminEndpoints(t *testing.T) {
	store := testStore()
	backend := newMemBackend()
	r := newTestRouter(store, backend)

	if w := doRequest(r, http.MethodPost, "/api/cache/warm", ""); w.Code != http.StatusOK {
		t.Fatalf("warm status = %d, want 200", w.Code)
	}

	w := doRequest(r, http.MethodGet, "/api/cache/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d, want 200", w.Code)
	}
	var stats models.CacheStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid stats response: %v", err)
	}
	if !stats.AllProperties.Cached {
		t.Error("stats report all_properties not cached after warm-up")
	}

	w = doRequest(r, http.MethodPost, "/api/cache/invalidate", "")
	if w.Code != http.StatusOK {
		t.Fatalf("invalidate status = %d, want 200", w.Code)
	}
	var inv struct {
		Invalidated int `json:"invalidated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &inv); err != nil {
		t.Fatalf("invalid invalidate response: %v", err)
	}
	// 9 warm entries plus the all_properties metadata entry.
	if inv.Invalidated != 10 {
		t.Errorf("invalidated = %d, want 10", inv.Invalidated)
	}

	if w := doRequest(r, http.MethodPost, "/api/cache/clear", ""); w.Code != http.StatusBadRequest {
		t.Errorf("clear without pattern status = %d, want 400", w.Code)
	}
}
