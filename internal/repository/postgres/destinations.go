package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

type destinationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDestinationRepository creates a new shipping destination repository
func NewDestinationRepository(db *sql.DB, logger *zap.Logger) *destinationRepository {
	return &destinationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *destinationRepository) ListActive(ctx context.Context) ([]*domain.Destination, error) {
	query := `
		SELECT id, name, cost, shipping_mode, is_active, created_at, updated_at
		FROM destinations
		WHERE is_active = TRUE
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list active destinations", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var destinations []*domain.Destination
	for rows.Next() {
		var dest domain.Destination

		err := rows.Scan(
			&dest.ID,
			&dest.Name,
			&dest.Cost,
			&dest.ShippingMode,
			&dest.IsActive,
			&dest.CreatedAt,
			&dest.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan destination row", zap.Error(err))
			return nil, err
		}

		destinations = append(destinations, &dest)
	}

	return destinations, rows.Err()
}

func (r *destinationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error) {
	query := `
		SELECT id, name, cost, shipping_mode, is_active, created_at, updated_at
		FROM destinations
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id.String())
}

func (r *destinationRepository) GetByName(ctx context.Context, name string) (*domain.Destination, error) {
	query := `
		SELECT id, name, cost, shipping_mode, is_active, created_at, updated_at
		FROM destinations
		WHERE lower(name) = lower($1)
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, name), name)
}

func (r *destinationRepository) scanOne(row *sql.Row, ref string) (*domain.Destination, error) {
	var dest domain.Destination

	err := row.Scan(
		&dest.ID,
		&dest.Name,
		&dest.Cost,
		&dest.ShippingMode,
		&dest.IsActive,
		&dest.CreatedAt,
		&dest.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "destination", ID: ref}
	}
	if err != nil {
		r.logger.Error("Failed to get destination", zap.Error(err))
		return nil, err
	}

	return &dest, nil
}

func (r *destinationRepository) UpsertBatch(ctx context.Context, destinations []*domain.Destination) error {
	if len(destinations) == 0 {
		return nil
	}

	query := `
		INSERT INTO destinations (id, name, cost, shipping_mode, is_active, created_at, updated_at)
		VALUES `

	args := make([]interface{}, 0, len(destinations)*7)
	now := time.Now()

	for i, dest := range destinations {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*7+1, i*7+2, i*7+3, i*7+4, i*7+5, i*7+6, i*7+7)

		if dest.ID == uuid.Nil {
			dest.ID = uuid.New()
		}
		if dest.CreatedAt.IsZero() {
			dest.CreatedAt = now
		}
		dest.UpdatedAt = now

		args = append(args,
			dest.ID,
			dest.Name,
			dest.Cost,
			dest.ShippingMode,
			dest.IsActive,
			dest.CreatedAt,
			dest.UpdatedAt,
		)
	}

	query += `
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			cost = EXCLUDED.cost,
			shipping_mode = EXCLUDED.shipping_mode,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to upsert destinations batch", zap.Error(err))
		return err
	}

	return nil
}
