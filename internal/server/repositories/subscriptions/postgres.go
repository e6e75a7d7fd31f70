package subscriptions

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, sub *models.PushSubscription) (*models.PushSubscription, error) {
	query := `
		INSERT INTO push_subscriptions (id, principal_id, endpoint, p256dh, auth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (principal_id)
		DO UPDATE SET
			endpoint = EXCLUDED.endpoint,
			p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`

	out := *sub
	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), sub.PrincipalID, sub.Endpoint, sub.P256dh, sub.Auth, sub.UpdatedAt,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, principalID string) (*models.PushSubscription, error) {
	query := `
		SELECT id, principal_id, endpoint, p256dh, auth, created_at, updated_at
		FROM push_subscriptions
		WHERE principal_id = $1
	`

	sub := &models.PushSubscription{}
	err := r.db.QueryRowContext(ctx, query, principalID).
		Scan(&sub.ID, &sub.PrincipalID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return sub, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.PushSubscription, error) {
	query := `
		SELECT id, principal_id, endpoint, p256dh, auth, created_at, updated_at
		FROM push_subscriptions
		ORDER BY principal_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.PushSubscription
	for rows.Next() {
		var sub models.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.PrincipalID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, principalID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE principal_id = $1`, principalID)
	return deleted(res, err)
}

func (r *PostgresRepository) DeleteEndpoint(ctx context.Context, principalID, endpoint string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM push_subscriptions WHERE principal_id = $1 AND endpoint = $2`, principalID, endpoint)
	return deleted(res, err)
}

func deleted(res sql.Result, err error) error {
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
