package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `id, code, user_id, customer_name, customer_phone, customer_email, customer_dni,
		status, order_type, destination_id, city, message, subtotal, shipping_cost, total,
		rejection_reason, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	// The human-facing code is assigned by the database so concurrent
	// checkouts never collide.
	query := `
		INSERT INTO orders (
			id, code, user_id, customer_name, customer_phone, customer_email, customer_dni,
			status, order_type, destination_id, city, message, subtotal, shipping_cost, total,
			created_at, updated_at
		)
		VALUES ($1, 'FER-' || lpad(nextval('order_code_seq')::text, 6, '0'),
			$2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING code
	`

	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	err := r.db.QueryRowContext(ctx, query,
		order.ID,
		order.UserID,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerEmail,
		order.CustomerDNI,
		order.Status,
		order.OrderType,
		order.DestinationID,
		order.City,
		order.Message,
		order.Subtotal,
		order.ShippingCost,
		order.Total,
		order.CreatedAt,
		order.UpdatedAt,
	).Scan(&order.Code)

	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id.String())
}

func (r *orderRepository) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE code = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, code), code)
}

func (r *orderRepository) scanOne(row *sql.Row, ref string) (*domain.Order, error) {
	var order domain.Order
	var userID uuid.NullUUID
	var customerDNI sql.NullString
	var destinationID uuid.NullUUID
	var rejectionReason sql.NullString

	err := row.Scan(
		&order.ID,
		&order.Code,
		&userID,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.CustomerEmail,
		&customerDNI,
		&order.Status,
		&order.OrderType,
		&destinationID,
		&order.City,
		&order.Message,
		&order.Subtotal,
		&order.ShippingCost,
		&order.Total,
		&rejectionReason,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: ref}
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.Error(err))
		return nil, err
	}

	if userID.Valid {
		order.UserID = &userID.UUID
	}
	if customerDNI.Valid {
		order.CustomerDNI = &customerDNI.String
	}
	if destinationID.Valid {
		order.DestinationID = &destinationID.UUID
	}
	if rejectionReason.Valid {
		order.RejectionReason = &rejectionReason.String
	}

	return &order, nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	return r.list(ctx, query, userID, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *orderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	return r.list(ctx, query, status, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	return r.list(ctx, query, normalizeLimit(limit), normalizeOffset(offset))
}

func (r *orderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		var userID uuid.NullUUID
		var customerDNI sql.NullString
		var destinationID uuid.NullUUID
		var rejectionReason sql.NullString

		err := rows.Scan(
			&order.ID,
			&order.Code,
			&userID,
			&order.CustomerName,
			&order.CustomerPhone,
			&order.CustomerEmail,
			&customerDNI,
			&order.Status,
			&order.OrderType,
			&destinationID,
			&order.City,
			&order.Message,
			&order.Subtotal,
			&order.ShippingCost,
			&order.Total,
			&rejectionReason,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan order row", zap.Error(err))
			return nil, err
		}

		if userID.Valid {
			order.UserID = &userID.UUID
		}
		if customerDNI.Valid {
			order.CustomerDNI = &customerDNI.String
		}
		if destinationID.Valid {
			order.DestinationID = &destinationID.UUID
		}
		if rejectionReason.Valid {
			order.RejectionReason = &rejectionReason.String
		}

		orders = append(orders, &order)
	}

	return orders, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, reason *string) error {
	query := `
		UPDATE orders
		SET status = $2, rejection_reason = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, reason, time.Now())
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}

	return nil
}

func (r *orderRepository) UpdateMessage(ctx context.Context, id uuid.UUID, message string) error {
	query := `UPDATE orders SET message = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, message, time.Now())
	if err != nil {
		r.logger.Error("Failed to update order message", zap.Error(err))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}

	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
