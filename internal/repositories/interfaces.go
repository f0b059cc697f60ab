package repositories

import (
	"context"

	"homeinsight-propcache/internal/models"
)

// PropertyStore is the backing store the cache service reads through to.
type PropertyStore interface {
	// FindAllByNewest returns every property ordered by creation time,
	// newest first.
	FindAllByNewest(ctx context.Context) ([]models.Property, error)

	// FindByLocation returns properties whose location contains the given
	// text, case-insensitively, newest first.
	FindByLocation(ctx context.Context, location string) ([]models.Property, error)

	// FindByPriceRange returns properties priced within [min, max]
	// inclusive, cheapest first.
	FindByPriceRange(ctx context.Context, min, max float64) ([]models.Property, error)

	// FindAll returns every property in store-default order.
	FindAll(ctx context.Context) ([]models.Property, error)

	Create(ctx context.Context, property *models.Property) error
}
