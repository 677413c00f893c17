package models

import "time"

// OrderItem is a snapshot of an item at the time the order was placed.
type OrderItem struct {
	Name   string  `json:"name" bson:"name" validate:"required"`
	Qty    int     `json:"qty" bson:"qty" validate:"gte=1"`
	Image  string  `json:"image" bson:"image"`
	Price  float64 `json:"price" bson:"price" validate:"gte=0"` // price at the time of order
	ItemID string  `json:"item" bson:"item" validate:"required"`
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
}

// PaymentResult records the payment provider's confirmation.
type PaymentResult struct {
	ID           string `json:"id" bson:"id"`
	Status       string `json:"status" bson:"status"`
	UpdateTime   string `json:"update_time" bson:"update_time"`
	EmailAddress string `json:"email_address" bson:"email_address"`
}

// Order represents a customer order. IsPaid and IsDelivered only ever flip
// from false to true.
type Order struct {
	ID              string          `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user" bson:"user" gorm:"index;type:varchar(36)"`
	OrderItems      []OrderItem     `json:"orderItems" bson:"orderItems" gorm:"serializer:json"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress" gorm:"serializer:json"`
	PaymentMethod   string          `json:"paymentMethod" bson:"paymentMethod"`
	PaymentResult   *PaymentResult  `json:"paymentResult" bson:"paymentResult" gorm:"serializer:json"`
	ItemsPrice      float64         `json:"itemsPrice" bson:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice" bson:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice" bson:"totalPrice"`
	IsPaid          bool            `json:"isPaid" bson:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt" bson:"paidAt"`
	IsDelivered     bool            `json:"isDelivered" bson:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt" bson:"deliveredAt"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// OrderDetail is an order with its owner resolved. The User field shadows
// Order.UserID in JSON, so "user" becomes an object (or null when the owner
// no longer exists).
type OrderDetail struct {
	Order
	User *UserSummary `json:"user"`
}

// CreateOrderRequest is the body of an order placement.
type CreateOrderRequest struct {
	OrderItems      []OrderItem     `json:"orderItems" validate:"dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice" validate:"gte=0"`
	TaxPrice        float64         `json:"taxPrice" validate:"gte=0"`
	ShippingPrice   float64         `json:"shippingPrice" validate:"gte=0"`
	TotalPrice      float64         `json:"totalPrice" validate:"gte=0"`
}

// Payer identifies who paid.
type Payer struct {
	EmailAddress string `json:"email_address"`
}

// PaymentConfirmation is the payload a payment provider sends back.
type PaymentConfirmation struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Time       string `json:"time"`
	UpdateTime string `json:"update_time"`
	Payer      Payer  `json:"payer"`
}

// Result converts the confirmation into the stored PaymentResult.
func (p PaymentConfirmation) Result() *PaymentResult {
	updated := p.Time
	if updated == "" {
		updated = p.UpdateTime
	}
	return &PaymentResult{
		ID:           p.ID,
		Status:       p.Status,
		UpdateTime:   updated,
		EmailAddress: p.Payer.EmailAddress,
	}
}
