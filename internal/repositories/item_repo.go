package repositories

import (
	"context"

	"tokobuku/internal/models"
)

// ItemRepository defines the interface for item data access.
type ItemRepository interface {
	GetAll(ctx context.Context) ([]models.Item, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	// Update replaces the stored item with the same ID.
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id string) error
}
