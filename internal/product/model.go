package product

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusArchived Status = "ARCHIVED"
)

type Product struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Description *string   `json:"description,omitempty"`
	UnitPrice   int64     `json:"unit_price"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewProductInput struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Description *string `json:"description"`
	UnitPrice   int64   `json:"unit_price"`
}

// UpdateProductInput carries only the fields the caller wants changed.
type UpdateProductInput struct {
	Name        *string `json:"name"`
	SKU         *string `json:"sku"`
	Description *string `json:"description"`
	UnitPrice   *int64  `json:"unit_price"`
}

type ProductFilterInput struct {
	Status          *Status `json:"status"`
	Search          *string `json:"search"`
	IncludeArchived bool    `json:"include_archived"`
}

type ProductSortField string

const (
	ProductSortFieldName      ProductSortField = "NAME"
	ProductSortFieldCreatedAt ProductSortField = "CREATED_AT"
	ProductSortFieldUnitPrice ProductSortField = "UNIT_PRICE"
)

type SortDirection string

const (
	SortDirectionAsc  SortDirection = "ASC"
	SortDirectionDesc SortDirection = "DESC"
)

type ProductSortInput struct {
	Field     ProductSortField `json:"field"`
	Direction SortDirection    `json:"direction"`
}
