package services

import (
	"context"
	"time"

	"homeinsight-propcache/internal/models"
	"homeinsight-propcache/internal/repositories"
	"homeinsight-propcache/pkg/cache"
	"homeinsight-propcache/pkg/logger"
	"homeinsight-propcache/pkg/metrics"
)

// warmLocations and warmPriceRanges are the queries pre-loaded by WarmCache.
var warmLocations = []string{"New York", "Los Angeles", "Chicago", "Miami", "Seattle"}

var warmPriceRanges = [][2]float64{
	{0, 500000},
	{500000, 1000000},
	{1000000, 5000000},
}

// PropertyCacheService is a read-through cache over the property store. Each
// get method checks the cache first, falls back to the store on a miss and
// repopulates the entry with a fixed TTL. The service holds no state of its
// own between calls; concurrent misses on one key may each run the backing
// query (accepted limitation, no stampede protection).
type PropertyCacheService struct {
	store repositories.PropertyStore
	cache cache.Backend
	log   *logger.Logger
}

func NewPropertyCacheService(store repositories.PropertyStore, backend cache.Backend, log *logger.Logger) *PropertyCacheService {
	return &PropertyCacheService{
		store: store,
		cache: backend,
		log:   log,
	}
}

// GetAll returns every property, newest first. On a miss the result is
// cached for an hour together with a best-effort metadata entry.
func (s *PropertyCacheService) GetAll(ctx context.Context) ([]models.Property, error) {
	var cached []models.Property
	hit, err := s.cache.Get(ctx, AllPropertiesKey, &cached)
	if err != nil {
		return nil, err
	}
	if hit {
		s.log.Printf("Cache HIT for key: %s", AllPropertiesKey)
		metrics.CacheHitsTotal.WithLabelValues("all").Inc()
		if ttl, ok, err := s.cache.TTL(ctx, AllPropertiesKey); err == nil && ok {
			s.log.Debugf("Cache TTL remaining for %s: %d seconds", AllPropertiesKey, int64(ttl.Seconds()))
		}
		return cached, nil
	}

	s.log.Printf("Cache MISS for key: %s. Fetching from store...", AllPropertiesKey)
	metrics.CacheMissesTotal.WithLabelValues("all").Inc()

	start := time.Now()
	properties, err := s.store.FindAllByNewest(ctx)
	if err != nil {
		s.log.Errorf("Error fetching properties: %v", err)
		return nil, err
	}
	fetchTime := time.Since(start).Seconds()
	s.log.Printf("Store fetch completed in %.3f seconds, retrieved %d properties", fetchTime, len(properties))

	if err := s.cache.Set(ctx, AllPropertiesKey, properties, AllPropertiesTTL); err != nil {
		return nil, err
	}

	// The metadata entry is fire-and-forget: its absence must never break a
	// read.
	meta := models.CacheMetadata{
		CachedAt:  time.Now().UTC().Format(time.RFC3339),
		Count:     len(properties),
		FetchTime: fetchTime,
		Source:    "database",
	}
	if err := s.cache.Set(ctx, AllPropertiesMetaKey, meta, AllPropertiesTTL); err != nil {
		s.log.Warnf("Failed to write cache metadata for %s: %v", AllPropertiesKey, err)
	}

	return properties, nil
}

// GetByLocation returns properties whose location contains the given text,
// newest first, cached for thirty minutes.
func (s *PropertyCacheService) GetByLocation(ctx context.Context, location string) ([]models.Property, error) {
	key := LocationKey(location)

	var cached []models.Property
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if hit {
		s.log.Printf("Cache HIT for location: %s", location)
		metrics.CacheHitsTotal.WithLabelValues("location").Inc()
		return cached, nil
	}

	s.log.Printf("Cache MISS for location: %s", location)
	metrics.CacheMissesTotal.WithLabelValues("location").Inc()

	properties, err := s.store.FindByLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, properties, LocationTTL); err != nil {
		return nil, err
	}
	return properties, nil
}

// GetByPriceRange returns properties priced within [min, max] inclusive,
// cheapest first, cached for fifteen minutes.
func (s *PropertyCacheService) GetByPriceRange(ctx context.Context, min, max float64) ([]models.Property, error) {
	key := PriceRangeKey(min, max)

	var cached []models.Property
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, err
	}
	if hit {
		s.log.Printf("Cache HIT for price range: $%v-$%v", min, max)
		metrics.CacheHitsTotal.WithLabelValues("price_range").Inc()
		return cached, nil
	}

	s.log.Printf("Cache MISS for price range: $%v-$%v", min, max)
	metrics.CacheMissesTotal.WithLabelValues("price_range").Inc()

	properties, err := s.store.FindByPriceRange(ctx, min, max)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, properties, PriceRangeTTL); err != nil {
		return nil, err
	}
	return properties, nil
}

// InvalidateAll removes every property-related cache entry and returns how
// many keys were deleted. Each pattern is handled independently: a failure
// on one pattern is logged and the rest are still processed.
func (s *PropertyCacheService) InvalidateAll(ctx context.Context) int {
	total := 0
	for _, pattern := range invalidationPatterns {
		keys, err := s.cache.Keys(ctx, pattern)
		if err != nil {
			s.log.Warnf("Could not invalidate pattern %s: %v", pattern, err)
			continue
		}
		if len(keys) == 0 {
			continue
		}
		removed, err := s.cache.Delete(ctx, keys...)
		if err != nil {
			s.log.Warnf("Could not invalidate pattern %s: %v", pattern, err)
			continue
		}
		total += int(removed)
		s.log.Printf("Invalidated %d keys matching pattern: %s", removed, pattern)
	}
	metrics.CacheKeysInvalidated.Add(float64(total))
	s.log.Printf("Total cache keys invalidated: %d", total)
	return total
}

// Stats reports the cache state of the all-properties entry. Per-location
// and per-price-range occupancy is not tracked; those sections stay empty.
func (s *PropertyCacheService) Stats(ctx context.Context) models.CacheStats {
	stats := models.CacheStats{
		Locations:   map[string]models.CacheKeyStats{},
		PriceRanges: map[string]models.CacheKeyStats{},
	}

	var cached []models.Property
	hit, err := s.cache.Get(ctx, AllPropertiesKey, &cached)
	if err != nil || !hit {
		return stats
	}
	stats.AllProperties.Cached = true

	if ttl, ok, err := s.cache.TTL(ctx, AllPropertiesKey); err == nil && ok {
		secs := int64(ttl.Seconds())
		stats.AllProperties.TTL = &secs
	}

	var meta models.CacheMetadata
	if hit, err := s.cache.Get(ctx, AllPropertiesMetaKey, &meta); err == nil && hit {
		stats.AllProperties.Metadata = &meta
	}

	return stats
}

// GetAllWithFallback behaves like GetAll, but if anything on the cache path
// fails it reads the store directly instead of surfacing the error.
func (s *PropertyCacheService) GetAllWithFallback(ctx context.Context) ([]models.Property, error) {
	properties, err := s.GetAll(ctx)
	if err == nil {
		return properties, nil
	}
	s.log.Errorf("Cache failed, fetching from store directly: %v", err)
	return s.store.FindAll(ctx)
}

// WarmCache pre-loads the all-properties list plus the common location and
// price-range queries, sequentially, each through the normal hit/miss path.
func (s *PropertyCacheService) WarmCache(ctx context.Context) error {
	s.log.Println("Warming up property cache...")

	if _, err := s.GetAll(ctx); err != nil {
		return err
	}
	for _, location := range warmLocations {
		if _, err := s.GetByLocation(ctx, location); err != nil {
			return err
		}
	}
	for _, bracket := range warmPriceRanges {
		if _, err := s.GetByPriceRange(ctx, bracket[0], bracket[1]); err != nil {
			return err
		}
	}

	s.log.Println("Cache warm-up completed")
	return nil
}

// ClearPattern removes keys matching a caller-supplied pattern and returns
// how many were deleted. Backend failures are logged and reported as zero.
func (s *PropertyCacheService) ClearPattern(ctx context.Context, pattern string) int {
	keys, err := s.cache.Keys(ctx, pattern)
	if err != nil {
		s.log.Errorf("Error clearing pattern %s: %v", pattern, err)
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	removed, err := s.cache.Delete(ctx, keys...)
	if err != nil {
		s.log.Errorf("Error clearing pattern %s: %v", pattern, err)
		return 0
	}
	s.log.Printf("Cleared %d keys matching pattern: %s", removed, pattern)
	return int(removed)
}
