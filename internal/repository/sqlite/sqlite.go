package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/weatherdash/backend/internal/domain"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// SQLiteRepository implements domain.FavoriteRepository on a local SQLite file
type SQLiteRepository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, creating parent directories as needed
func Open(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// single writer keeps first-or-create serialized
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &SQLiteRepository{db: db}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Migrate ensures the favorites table exists
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS favorites (
			id TEXT PRIMARY KEY,
			city TEXT NOT NULL,
			country TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_city ON favorites(city);`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: init schema: %w", err)
		}
	}
	return nil
}

// ListFavorites returns all favorites ordered by city
func (r *SQLiteRepository) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, city, country, created_at, updated_at FROM favorites ORDER BY city ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query favorites: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Favorite, 0)
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate favorites: %w", err)
	}
	return out, nil
}

// FirstOrCreateFavorite looks up (city, country) and inserts it when missing.
// "country IS ?" treats two NULLs as equal.
func (r *SQLiteRepository) FirstOrCreateFavorite(ctx context.Context, in domain.FavoriteInput) (domain.Favorite, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Favorite{}, false, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRowContext(ctx, `SELECT id, city, country, created_at, updated_at FROM favorites
		WHERE city = ? AND country IS ? ORDER BY created_at ASC LIMIT 1`, in.City, nullable(in.Country))
	f, err := scanFavorite(row)
	switch {
	case err == nil:
		return f, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return domain.Favorite{}, false, err
	}

	now := time.Now().UTC()
	f = domain.Favorite{
		ID:        uuid.NewString(),
		City:      in.City,
		Country:   in.Country,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO favorites(id, city, country, created_at, updated_at) VALUES(?,?,?,?,?)`,
		f.ID, f.City, nullable(f.Country), now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return domain.Favorite{}, false, fmt.Errorf("sqlite: insert favorite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Favorite{}, false, fmt.Errorf("sqlite: commit: %w", err)
	}
	return f, true, nil
}

// DeleteFavorite removes a favorite by id; a missing id is a no-op
func (r *SQLiteRepository) DeleteFavorite(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: delete favorite: %w", err)
	}
	return nil
}

// Health pings the database
func (r *SQLiteRepository) Health(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: health check failed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFavorite(row rowScanner) (domain.Favorite, error) {
	var (
		f                domain.Favorite
		country          sql.NullString
		created, updated string
	)
	if err := row.Scan(&f.ID, &f.City, &country, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Favorite{}, err
		}
		return domain.Favorite{}, fmt.Errorf("sqlite: scan favorite: %w", err)
	}
	if country.Valid {
		c := country.String
		f.Country = &c
	}
	if t, err := time.Parse(timeLayout, created); err == nil {
		f.CreatedAt = t
	}
	if t, err := time.Parse(timeLayout, updated); err == nil {
		f.UpdatedAt = t
	}
	return f, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
