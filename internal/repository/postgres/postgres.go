package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weatherdash/backend/internal/domain"
)

// PostgresRepository implements domain.FavoriteRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Migrate creates the favorites table if it does not exist
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS favorites (
			id         UUID PRIMARY KEY,
			city       VARCHAR(100) NOT NULL,
			country    VARCHAR(5),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_city ON favorites (city)`,
	}

	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: failed to migrate: %w", err)
		}
	}
	return nil
}

// ListFavorites retrieves all favorites ordered by city
func (r *PostgresRepository) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	query := `
		SELECT id::text, city, country, created_at, updated_at
		FROM favorites
		ORDER BY city ASC, created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query favorites: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Favorite, 0)
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.ID, &f.City, &f.Country, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan favorite row: %w", err)
		}
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate favorites: %w", err)
	}

	return results, nil
}

// FirstOrCreateFavorite looks up (city, country) and inserts it when missing.
// NULL countries compare equal via IS NOT DISTINCT FROM.
func (r *PostgresRepository) FirstOrCreateFavorite(ctx context.Context, in domain.FavoriteInput) (domain.Favorite, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Favorite{}, false, fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var f domain.Favorite
	err = tx.QueryRow(ctx, `
		SELECT id::text, city, country, created_at, updated_at
		FROM favorites
		WHERE city = $1 AND country IS NOT DISTINCT FROM $2
		ORDER BY created_at ASC
		LIMIT 1
	`, in.City, in.Country).Scan(&f.ID, &f.City, &f.Country, &f.CreatedAt, &f.UpdatedAt)
	switch {
	case err == nil:
		return f, false, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.Favorite{}, false, fmt.Errorf("postgres: failed to find favorite: %w", err)
	}

	now := time.Now().UTC()
	f = domain.Favorite{
		ID:        uuid.NewString(),
		City:      in.City,
		Country:   in.Country,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO favorites (id, city, country, created_at, updated_at)
		VALUES ($1::uuid, $2, $3, $4, $5)
	`, f.ID, f.City, f.Country, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return domain.Favorite{}, false, fmt.Errorf("postgres: failed to save favorite: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Favorite{}, false, fmt.Errorf("postgres: failed to commit favorite: %w", err)
	}

	return f, true, nil
}

// DeleteFavorite removes a favorite; ids that are not UUIDs match nothing
func (r *PostgresRepository) DeleteFavorite(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE id = $1::uuid`, id); err != nil {
		return fmt.Errorf("postgres: failed to delete favorite: %w", err)
	}
	return nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
