package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
)

// UserRepository defines user data access methods
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// ListProductsParams filters and paginates the catalog.
type ListProductsParams struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

// ProductRepository defines product data access methods
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context, params ListProductsParams) ([]*domain.Product, int, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines order data access methods
type OrderRepository interface {
	// Create persists the order and assigns its ID and human-facing code.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByCode(ctx context.Context, code string) (*domain.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, reason *string) error
	UpdateMessage(ctx context.Context, id uuid.UUID, message string) error
}

// OrderItemRepository defines order item data access methods
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []*domain.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
}

// OrderEventRepository defines order event data access methods
type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error)
}

// DestinationRepository defines shipping destination data access methods
type DestinationRepository interface {
	ListActive(ctx context.Context) ([]*domain.Destination, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error)
	GetByName(ctx context.Context, name string) (*domain.Destination, error)
	UpsertBatch(ctx context.Context, destinations []*domain.Destination) error
}

// FavoriteRepository defines account favorites data access methods
type FavoriteRepository interface {
	ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	AddBatch(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

// NoteRepository defines calendar note data access methods
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUserAndRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Note, error)
}

// IdempotencyKeyRepository defines idempotency key data access methods
type IdempotencyKeyRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Create(ctx context.Context, key *domain.IdempotencyKey) error
}

// Repositories aggregates all repositories
type Repositories struct {
	User           UserRepository
	Product        ProductRepository
	Order          OrderRepository
	OrderItem      OrderItemRepository
	OrderEvent     OrderEventRepository
	Destination    DestinationRepository
	Favorite       FavoriteRepository
	Note           NoteRepository
	IdempotencyKey IdempotencyKeyRepository
}
