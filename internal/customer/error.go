package customer

import "errors"

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrEmptyName        = errors.New("customer name cannot be empty")
	ErrNoUpdateFields   = errors.New("no fields to update")
)
