package repositories

import (
	"context"

	"tokobuku/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are never deleted through the API.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByUser(ctx context.Context, userID string) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
}
