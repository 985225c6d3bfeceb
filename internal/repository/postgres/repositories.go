package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		User:           NewUserRepository(db, logger),
		Product:        NewProductRepository(db, logger),
		Order:          NewOrderRepository(db, logger),
		OrderItem:      NewOrderItemRepository(db, logger),
		OrderEvent:     NewOrderEventRepository(db, logger),
		Destination:    NewDestinationRepository(db, logger),
		Favorite:       NewFavoriteRepository(db, logger),
		Note:           NewNoteRepository(db, logger),
		IdempotencyKey: NewIdempotencyKeyRepository(db, logger),
	}
}
