package models

// CacheMetadata describes a cached property list: when it was fetched, how
// many items it holds and how long the backing query took. It lives under a
// sibling "<key>_meta" cache key and is best-effort only.
type CacheMetadata struct {
	CachedAt  string  `json:"cached_at"`
	Count     int     `json:"count"`
	FetchTime float64 `json:"fetch_time"`
	Source    string  `json:"source"`
}

// CacheKeyStats reports the cache state of a single well-known key.
type CacheKeyStats struct {
	Cached   bool           `json:"cached"`
	TTL      *int64         `json:"ttl,omitempty"`
	Metadata *CacheMetadata `json:"metadata,omitempty"`
}

// CacheStats is the shape returned by the cache stats endpoint. Per-location
// and per-price-range occupancy is not tracked; those maps stay empty.
type CacheStats struct {
	AllProperties CacheKeyStats            `json:"all_properties"`
	Locations     map[string]CacheKeyStats `json:"locations"`
	PriceRanges   map[string]CacheKeyStats `json:"price_ranges"`
}
