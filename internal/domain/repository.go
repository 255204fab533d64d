package domain

import (
	"context"
)

// FavoriteRepository defines the interface for favorites persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type FavoriteRepository interface {
	// ListFavorites returns all favorites ordered by city
	ListFavorites(ctx context.Context) ([]Favorite, error)

	// FirstOrCreateFavorite returns the favorite matching (city, country) or creates it.
	// The bool is true when a new record was created.
	FirstOrCreateFavorite(ctx context.Context, in FavoriteInput) (Favorite, bool, error)

	// DeleteFavorite removes a favorite by id. Unknown ids are not an error.
	DeleteFavorite(ctx context.Context, id string) error

	// Health checks database connectivity
	Health(ctx context.Context) error
}
