package models

import "time"

// User represents a customer or administrator of the store.
type User struct {
	ID        string    `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" bson:"username" gorm:"uniqueIndex;type:varchar(100)"`
	Email     string    `json:"email" bson:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password  string    `json:"-" bson:"password" gorm:"type:varchar(255)"` // bcrypt hash
	IsAdmin   bool      `json:"isAdmin" bson:"isAdmin"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the subset of a user joined into order responses.
type UserSummary struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// RegisterRequest is the body of a sign-up call.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	Token    string `json:"token"`
}
