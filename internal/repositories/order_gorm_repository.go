package repositories

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tokobuku/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders.
func (r *GORMOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	return orders, nil
}

// GetByUser retrieves the orders owned by userID.
func (r *GORMOrderRepository) GetByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find orders of user %s", userID)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "order %s", id)
		}
		return nil, errors.Wrapf(err, "find order %s", id)
	}
	return &order, nil
}

// Create inserts a new order.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return errors.Wrap(err, "create order")
	}
	return nil
}

// Update writes every column of order.
func (r *GORMOrderRepository) Update(ctx context.Context, order *models.Order) error {
	res := r.db.WithContext(ctx).Model(order).Select("*").Updates(order)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update order %s", order.ID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "order %s", order.ID)
	}
	return nil
}
