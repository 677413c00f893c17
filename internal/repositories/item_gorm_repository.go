package repositories

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tokobuku/internal/models"
)

// GORMItemRepository is a GORM implementation of ItemRepository.
// Reviews live in a JSON column next to the item row.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{
		db: db,
	}
}

// GetAll retrieves all items from the database.
func (r *GORMItemRepository) GetAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "find items")
	}
	return items, nil
}

// GetByID retrieves a single item by its ID from the database.
func (r *GORMItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "item %s", id)
		}
		return nil, errors.Wrapf(err, "find item %s", id)
	}
	return &item, nil
}

// Create creates a new item in the database.
func (r *GORMItemRepository) Create(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return errors.Wrap(err, "create item")
	}
	return nil
}

// Update writes every column of item, zero values included.
func (r *GORMItemRepository) Update(ctx context.Context, item *models.Item) error {
	res := r.db.WithContext(ctx).Model(item).Select("*").Updates(item)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update item %s", item.ID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "item %s", item.ID)
	}
	return nil
}

// Delete deletes an item by its ID from the database.
func (r *GORMItemRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete item %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "item %s", id)
	}
	return nil
}
