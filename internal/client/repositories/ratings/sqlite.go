// Package ratings is the local read cache of ratings the server has confirmed.
package ratings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rateday/internal/client/models"
	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/dbx"
)

const selectColumns = `SELECT date, mood, notes, updated_at, cached_at FROM cached_ratings`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, c *models.CachedRating) error {
	var notes sql.NullString
	if c.Notes != "" {
		notes = sql.NullString{String: c.Notes, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cached_ratings (date, mood, notes, updated_at, cached_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			mood = excluded.mood,
			notes = excluded.notes,
			updated_at = excluded.updated_at,
			cached_at = excluded.cached_at
	`, c.Date, int(c.Mood), notes, c.UpdatedAt.UnixMilli(), c.CachedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to cache rating[%s]: %w", c.Date, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, date string) (*models.CachedRating, error) {
	c, err := scanOne(r.db.QueryRowContext(ctx, selectColumns+` WHERE date = ?`, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached rating[%s]: %w", date, err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.CachedRating, error) {
	return r.query(ctx, selectColumns+` ORDER BY date`)
}

func (r *SQLiteRepository) GetRange(ctx context.Context, from, to string) ([]*models.CachedRating, error) {
	return r.query(ctx, selectColumns+` WHERE date >= ? AND date <= ? ORDER BY date`, from, to)
}

func (r *SQLiteRepository) query(ctx context.Context, q string, args ...any) ([]*models.CachedRating, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached ratings: %w", err)
	}
	defer rows.Close()

	result := make([]*models.CachedRating, 0)
	for rows.Next() {
		c, err := scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached rating: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached ratings: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, date string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cached_ratings WHERE date = ?`, date); err != nil {
		return fmt.Errorf("failed to delete cached rating[%s]: %w", date, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cached_ratings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cached ratings: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cached_ratings`); err != nil {
		return fmt.Errorf("failed to clear cached ratings: %w", err)
	}
	return nil
}

func scanOne(s interface{ Scan(dest ...any) error }) (*models.CachedRating, error) {
	var (
		c         models.CachedRating
		mood      int
		notes     sql.NullString
		updatedAt int64
		cachedAt  int64
	)
	if err := s.Scan(&c.Date, &mood, &notes, &updatedAt, &cachedAt); err != nil {
		return nil, err
	}
	c.Mood = common.MoodLevel(mood)
	c.Notes = notes.String
	c.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	c.CachedAt = time.UnixMilli(cachedAt).UTC()
	return &c, nil
}
