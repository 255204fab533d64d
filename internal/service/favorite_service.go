package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/weatherdash/backend/internal/domain"
)

// FavoriteService validates and persists favorite cities
type FavoriteService struct {
	repo FavoriteRepository
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(repo FavoriteRepository) *FavoriteService {
	return &FavoriteService{repo: repo}
}

// List returns favorites ordered by city ascending
func (s *FavoriteService) List(ctx context.Context) ([]domain.Favorite, error) {
	favorites, err := s.repo.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("favorites: list: %w", err)
	}
	return favorites, nil
}

// Add creates a favorite unless an identical (city, country) pair already exists,
// in which case the existing record is returned unchanged.
func (s *FavoriteService) Add(ctx context.Context, city string, country *string) (domain.Favorite, error) {
	in, err := domain.NewFavoriteInput(city, country)
	if err != nil {
		return domain.Favorite{}, err
	}

	fav, _, err := s.repo.FirstOrCreateFavorite(ctx, in)
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("favorites: add: %w", err)
	}
	return fav, nil
}

// Remove deletes a favorite by id. Removing an unknown id is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if err := s.repo.DeleteFavorite(ctx, id); err != nil {
		return fmt.Errorf("favorites: remove: %w", err)
	}
	return nil
}

// Health checks the underlying store
func (s *FavoriteService) Health(ctx context.Context) error {
	return s.repo.Health(ctx)
}
