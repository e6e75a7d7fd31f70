package ratings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/dmitrijs2005/rateday/internal/dbx"
	"github.com/dmitrijs2005/rateday/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements rating storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert relies on the (principal_id, date) unique constraint. The id of a
// new row is generated here; on conflict the existing id is kept.
func (r *PostgresRepository) Upsert(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	query := `
		INSERT INTO ratings (id, principal_id, date, mood, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (principal_id, date)
		DO UPDATE SET
			mood = EXCLUDED.mood,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`

	out := *rating
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), rating.PrincipalID, rating.Date, rating.Mood, nullString(rating.Notes), rating.UpdatedAt,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, principalID, date string) (*models.Rating, error) {
	query := `
		SELECT id, principal_id, date, mood, notes, created_at, updated_at
		FROM ratings
		WHERE principal_id = $1 AND date = $2
	`

	rating, err := scanRating(r.db.QueryRowContext(ctx, query, principalID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rating, nil
}

func (r *PostgresRepository) ListRange(ctx context.Context, principalID, from, to string) ([]models.Rating, error) {
	query := `
		SELECT id, principal_id, date, mood, notes, created_at, updated_at
		FROM ratings
		WHERE principal_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, principalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Rating, 0)
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, *rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, principalID, date string) error {
	query := `DELETE FROM ratings WHERE principal_id = $1 AND date = $2`

	res, err := r.db.ExecContext(ctx, query, principalID, date)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.RequireAffected(res); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return common.ErrorNotFound
		}
		return err
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRating(s scanner) (*models.Rating, error) {
	var (
		rating models.Rating
		notes  sql.NullString
	)
	if err := s.Scan(&rating.ID, &rating.PrincipalID, &rating.Date, &rating.Mood, &notes, &rating.CreatedAt, &rating.UpdatedAt); err != nil {
		return nil, err
	}
	rating.Notes = notes.String
	return &rating, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
