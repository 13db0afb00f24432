package stock

import "errors"

var (
	// -- User-correctable --
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")

	// -- Invariant violations (programming/data-integrity errors) --
	ErrReservationUnderflow = errors.New("release exceeds reserved quantity")

	// -- Resource state --
	ErrStockItemNotFound = errors.New("stock item not found")
	ErrStockItemReserved = errors.New("stock item still has reserved quantity")
)
