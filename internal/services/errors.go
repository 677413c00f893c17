package services

import (
	"net/http"

	"github.com/go-faster/errors"

	"tokobuku/internal/apperror"
	"tokobuku/internal/repositories"
)

// Messages reported to clients.
const (
	MsgItemNotFound       = "Item not found"
	MsgOrderNotFound      = "Order not found"
	MsgAlreadyReviewed    = "Item already reviewed"
	MsgRatingRequired     = "Rating is required"
	MsgNoOrderItems       = "No order items"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserExists         = "User already exists"
)

// notFoundAs turns a repository miss into a 404 with message; other errors
// pass through unchanged.
func notFoundAs(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return &apperror.Error{Status: http.StatusNotFound, Message: message, Err: err}
	}
	return err
}
