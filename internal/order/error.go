package order

import "errors"

var (
	// -- Resource state --
	ErrOrderNotFound = errors.New("order not found")
	ErrLineNotFound  = errors.New("order line not found")
	ErrOrderDeleted  = errors.New("order is deleted")

	// -- Lifecycle --
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrOrderNotEditable     = errors.New("order lines can no longer be changed")
	ErrLineAlreadyFulfilled = errors.New("order line reservation already realized")

	// -- Validation --
	ErrInvalidQuantity = errors.New("line quantity must be greater than zero")
	ErrNoLines         = errors.New("order has no lines")
)
