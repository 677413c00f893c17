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

// MockItemRepository is an in-memory implementation of ItemRepository.
type MockItemRepository struct {
	items map[string]models.Item
	mu    sync.RWMutex
}

// NewMockItemRepository creates a new instance of MockItemRepository.
func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{
		items: make(map[string]models.Item),
	}
}

// GetAll returns all items, oldest first.
func (r *MockItemRepository) GetAll(_ context.Context) ([]models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.Item, 0, len(r.items))
	for _, item := range r.items {
		itemList = append(itemList, cloneItem(item))
	}
	sort.Slice(itemList, func(i, j int) bool {
		if itemList[i].CreatedAt.Equal(itemList[j].CreatedAt) {
			return itemList[i].ID < itemList[j].ID
		}
		return itemList[i].CreatedAt.Before(itemList[j].CreatedAt)
	})
	return itemList, nil
}

// GetByID returns an item by its ID.
func (r *MockItemRepository) GetByID(_ context.Context, id string) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "item %s", id)
	}
	item = cloneItem(item)
	return &item, nil
}

// Create adds a new item.
func (r *MockItemRepository) Create(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.items[item.ID] = cloneItem(*item)
	return nil
}

// Update replaces an existing item.
func (r *MockItemRepository) Update(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return errors.Wrapf(ErrNotFound, "item %s", item.ID)
	}
	item.UpdatedAt = time.Now()
	r.items[item.ID] = cloneItem(*item)
	return nil
}

// Delete removes an item by its ID.
func (r *MockItemRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return errors.Wrapf(ErrNotFound, "item %s", id)
	}
	delete(r.items, id)
	return nil
}

func cloneItem(item models.Item) models.Item {
	item.Reviews = append(make([]models.Review, 0, len(item.Reviews)), item.Reviews...)
	return item
}
