package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"tokobuku/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders, oldest first.
func (r *MockOrderRepository) GetAll(_ context.Context) ([]models.Order, error) {
	return r.filter(func(models.Order) bool { return true }), nil
}

// GetByUser returns the orders owned by userID.
func (r *MockOrderRepository) GetByUser(_ context.Context, userID string) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (r *MockOrderRepository) filter(keep func(models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			orderList = append(orderList, cloneOrder(order))
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		if orderList[i].CreatedAt.Equal(orderList[j].CreatedAt) {
			return orderList[i].ID < orderList[j].ID
		}
		return orderList[i].CreatedAt.Before(orderList[j].CreatedAt)
	})
	return orderList
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "order %s", id)
	}
	order = cloneOrder(order)
	return &order, nil
}

// Create adds a new order.
func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

// Update replaces an existing order.
func (r *MockOrderRepository) Update(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return errors.Wrapf(ErrNotFound, "order %s", order.ID)
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

func cloneOrder(order models.Order) models.Order {
	order.OrderItems = append(make([]models.OrderItem, 0, len(order.OrderItems)), order.OrderItems...)
	if order.PaymentResult != nil {
		pr := *order.PaymentResult
		order.PaymentResult = &pr
	}
	return order
}
