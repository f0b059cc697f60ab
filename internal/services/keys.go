package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Well-known cache keys and TTLs for the property read paths.
const (
	AllPropertiesKey     = "all_properties"
	AllPropertiesMetaKey = "all_properties_meta"

	AllPropertiesTTL = 3600 * time.Second
	LocationTTL      = 1800 * time.Second
	PriceRangeTTL    = 900 * time.Second
)

// invalidationPatterns covers every key family the service writes, plus the
// per-record keys the serving layer may add alongside.
var invalidationPatterns = []string{
	AllPropertiesKey,
	AllPropertiesMetaKey,
	"properties_location_*",
	"properties_price_*",
	"property_*",
}

// LocationKey derives the cache key for a location query. The input is
// lowercased and spaces become underscores, so "New York" and "new york"
// share one entry.
func LocationKey(location string) string {
	return "properties_location_" + strings.ReplaceAll(strings.ToLower(location), " ", "_")
}

// PriceRangeKey derives the cache key for a price range query from the
// textual form of both bounds.
func PriceRangeKey(min, max float64) string {
	return fmt.Sprintf("properties_price_%s_%s", formatPrice(min), formatPrice(max))
}

// formatPrice renders a price bound in plain decimal notation, never
// scientific, so large bounds stay readable in key listings.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
