package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyName       = errors.New("product name cannot be empty")
	ErrInvalidPrice    = errors.New("unit price must be positive")
	ErrNoUpdateFields  = errors.New("no fields to update")
	ErrDuplicateSKU    = errors.New("sku already exists for this tenant")
)
