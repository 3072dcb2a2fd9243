package orders

import (
	"time"

	"github.com/denovbaraka/storefront-backend/internal/cart"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusDelivering Status = "delivering"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether the status belongs to the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusDelivering, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are defined.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo encodes the lifecycle: processing→delivering→completed,
// with cancellation allowed from processing and delivering. Nothing leaves a
// terminal state, and processing cannot jump straight to completed.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusProcessing:
		return next == StatusDelivering || next == StatusCancelled
	case StatusDelivering:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// Customer is the contact record captured at checkout. All fields required.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order is the immutable-at-creation record produced from a cart snapshot.
// Total and FreeDelivery are frozen at checkout and never recomputed, even if
// the delivery pricing changes later. Cancellation is a status, not a delete.
type Order struct {
	ID           string      `json:"id"`
	Items        []cart.Line `json:"items"`
	Customer     Customer    `json:"customer"`
	Total        int         `json:"total"`
	Status       Status      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	FreeDelivery bool        `json:"freeDelivery"`
	Rating       *int        `json:"rating,omitempty"`
}
