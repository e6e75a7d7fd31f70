// Package pending stores rating writes that still have to reach the server.
package pending

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

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, w *models.PendingWrite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_ratings (date, mood, notes, enqueued_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			mood = excluded.mood,
			notes = excluded.notes,
			enqueued_at = excluded.enqueued_at
	`, w.Date, int(w.Mood), nullable(w.Notes), w.EnqueuedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to put pending rating[%s]: %w", w.Date, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, date string) (*models.PendingWrite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT date, mood, notes, enqueued_at FROM pending_ratings WHERE date = ?`, date)

	w, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending rating[%s]: %w", date, err)
	}
	return w, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.PendingWrite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, mood, notes, enqueued_at FROM pending_ratings ORDER BY enqueued_at, date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending ratings: %w", err)
	}
	defer rows.Close()

	result := make([]*models.PendingWrite, 0)
	for rows.Next() {
		w, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending rating: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending ratings: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, date string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_ratings WHERE date = ?`, date); err != nil {
		return fmt.Errorf("failed to delete pending rating[%s]: %w", date, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteIfUnchanged(ctx context.Context, date string, enqueuedAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM pending_ratings WHERE date = ? AND enqueued_at = ?`, date, enqueuedAt.UnixNano())
	if err != nil {
		return false, fmt.Errorf("failed to delete pending rating[%s]: %w", date, err)
	}
	if err := dbx.RequireAffected(res); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_ratings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending ratings: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_ratings`); err != nil {
		return fmt.Errorf("failed to clear pending ratings: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.PendingWrite, error) {
	var (
		w     models.PendingWrite
		mood  int
		notes sql.NullString
		ts    int64
	)
	if err := s.Scan(&w.Date, &mood, &notes, &ts); err != nil {
		return nil, err
	}
	w.Mood = common.MoodLevel(mood)
	w.Notes = notes.String
	w.EnqueuedAt = time.Unix(0, ts)
	return &w, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
