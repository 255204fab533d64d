package postgres

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/weatherdash/backend/internal/domain"
)

// MockRepository implements domain.FavoriteRepository in memory for testing/demo mode
type MockRepository struct {
	mu        sync.RWMutex
	favorites []domain.Favorite
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// ListFavorites returns a copy of the stored favorites ordered by city
func (r *MockRepository) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Favorite, len(r.favorites))
	copy(out, r.favorites)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].City < out[j].City
	})
	return out, nil
}

// FirstOrCreateFavorite returns the first favorite matching (city, country) or appends a new one
func (r *MockRepository) FirstOrCreateFavorite(ctx context.Context, in domain.FavoriteInput) (domain.Favorite, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.favorites {
		if f.City == in.City && domain.SameCountry(f.Country, in.Country) {
			return f, false, nil
		}
	}

	now := time.Now().UTC()
	f := domain.Favorite{
		ID:        uuid.NewString(),
		City:      in.City,
		Country:   in.Country,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.favorites = append(r.favorites, f)
	return f, true, nil
}

// DeleteFavorite removes the favorite with the given id, if any
func (r *MockRepository) DeleteFavorite(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, f := range r.favorites {
		if f.ID == id {
			r.favorites = append(r.favorites[:i], r.favorites[i+1:]...)
			return nil
		}
	}
	return nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
