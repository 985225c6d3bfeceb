package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type favoriteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFavoriteRepository creates a new favorites repository
func NewFavoriteRepository(db *sql.DB, logger *zap.Logger) *favoriteRepository {
	return &favoriteRepository{
		db:     db,
		logger: logger,
	}
}

func (r *favoriteRepository) ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT product_id
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list favorites", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.logger.Error("Failed to scan favorite row", zap.Error(err))
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *favoriteRepository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	query := `
		INSERT INTO favorites (user_id, product_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, userID, productID, time.Now())
	if err != nil {
		r.logger.Error("Failed to add favorite", zap.Error(err))
		return err
	}

	return nil
}

func (r *favoriteRepository) AddBatch(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO favorites (user_id, product_id, created_at)
		VALUES `

	args := make([]interface{}, 0, len(productIDs)*3)
	now := time.Now()

	for i, productID := range productIDs {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, userID, productID, now)
	}

	query += ` ON CONFLICT (user_id, product_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to add favorites batch", zap.Error(err))
		return err
	}

	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`

	_, err := r.db.ExecContext(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error("Failed to remove favorite", zap.Error(err))
		return err
	}

	return nil
}
