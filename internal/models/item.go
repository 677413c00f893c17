package models

import "time"

// Review is a single user's rating and comment on an item.
type Review struct {
	Name      string    `json:"name" bson:"name"`
	Rating    float64   `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	UserID    string    `json:"user" bson:"user"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Item represents a catalog entry in the store.
// Reviews are embedded; NumReviews and Rating are derived from them.
type Item struct {
	ID           string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string    `json:"user" bson:"user" gorm:"index;type:varchar(36)"`
	Name         string    `json:"name" bson:"name"`
	Image        string    `json:"image" bson:"image"`
	Genre        string    `json:"genre" bson:"genre"`
	Author       string    `json:"author" bson:"author"`
	Description  string    `json:"description" bson:"description"`
	Reviews      []Review  `json:"reviews" bson:"reviews" gorm:"serializer:json"`
	Rating       float64   `json:"rating" bson:"rating"`
	NumReviews   int       `json:"numReviews" bson:"numReviews"`
	Price        float64   `json:"price" bson:"price"`
	CountInStock int       `json:"countInStock" bson:"countInStock"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HasReviewFrom reports whether userID already reviewed the item.
func (i *Item) HasReviewFrom(userID string) bool {
	for _, r := range i.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// AddReview appends r and recomputes NumReviews and Rating.
func (i *Item) AddReview(r Review) {
	i.Reviews = append(i.Reviews, r)
	i.NumReviews = len(i.Reviews)

	var sum float64
	for _, rv := range i.Reviews {
		sum += rv.Rating
	}
	i.Rating = sum / float64(i.NumReviews)
}

// ItemUpdate holds the editable fields of an item. Every field is written on
// update, so a field missing from the request body resets to its zero value.
type ItemUpdate struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	Genre        string  `json:"genre"`
	Author       string  `json:"author"`
	Image        string  `json:"image"`
	CountInStock int     `json:"countInStock"`
}

// Apply overwrites the editable fields of item.
func (u ItemUpdate) Apply(item *Item) {
	item.Name = u.Name
	item.Price = u.Price
	item.Description = u.Description
	item.Genre = u.Genre
	item.Author = u.Author
	item.Image = u.Image
	item.CountInStock = u.CountInStock
}

// ReviewInput is the body of a review submission. Rating must be present.
type ReviewInput struct {
	Rating  *Number `json:"rating" validate:"required"`
	Comment string `json:"comment"`
}
