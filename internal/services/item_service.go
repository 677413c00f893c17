package services

import (
	"context"
	"time"

	"tokobuku/internal/apperror"
	"tokobuku/internal/models"
	"tokobuku/internal/repositories"
)

// Placeholder values for a freshly created item. Real values arrive through
// a later update.
const (
	SampleName        = "Sample name"
	SampleImage       = "https://dummyimage.com/200X300/145e0d/ffffff"
	SampleGenre       = "Sample genre"
	SampleAuthor      = "Sample author"
	SampleDescription = "Sample description"
)

// ItemService handles business logic related to catalog items.
type ItemService struct {
	repo repositories.ItemRepository
	now  func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(repo repositories.ItemRepository) *ItemService {
	return &ItemService{
		repo: repo,
		now:  time.Now,
	}
}

// GetAllItems retrieves all items.
func (s *ItemService) GetAllItems(ctx context.Context) ([]models.Item, error) {
	return s.repo.GetAll(ctx)
}

// GetItemByID retrieves a single item by its ID.
func (s *ItemService) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, MsgItemNotFound)
	}
	return item, nil
}

// CreateItem stores a placeholder item owned by userID.
func (s *ItemService) CreateItem(ctx context.Context, userID string) (*models.Item, error) {
	item := &models.Item{
		Name:         SampleName,
		Price:        0,
		UserID:       userID,
		Image:        SampleImage,
		Genre:        SampleGenre,
		Author:       SampleAuthor,
		CountInStock: 0,
		NumReviews:   0,
		Rating:       0,
		Reviews:      []models.Review{},
		Description:  SampleDescription,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem overwrites every editable field of the item.
func (s *ItemService) UpdateItem(ctx context.Context, id string, update models.ItemUpdate) (*models.Item, error) {
	item, err := s.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(item)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, notFoundAs(err, MsgItemNotFound)
	}
	return item, nil
}

// DeleteItem deletes an item by its ID.
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.GetItemByID(ctx, id); err != nil {
		return err
	}
	return notFoundAs(s.repo.Delete(ctx, id), MsgItemNotFound)
}

// AddReview appends the reviewer's rating to the item and refreshes the
// aggregate rating. A user may review an item once.
func (s *ItemService) AddReview(ctx context.Context, id string, reviewer *models.User, in models.ReviewInput) error {
	if in.Rating == nil {
		return apperror.Validation(MsgRatingRequired)
	}
	item, err := s.GetItemByID(ctx, id)
	if err != nil {
		return err
	}
	if item.HasReviewFrom(reviewer.ID) {
		return apperror.Validation(MsgAlreadyReviewed)
	}

	item.AddReview(models.Review{
		Name:      reviewer.Username,
		Rating:    float64(*in.Rating),
		Comment:   in.Comment,
		UserID:    reviewer.ID,
		CreatedAt: s.now(),
	})
	return notFoundAs(s.repo.Update(ctx, item), MsgItemNotFound)
}
