package order

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusDraft      OrderStatus = "DRAFT"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Order is a sales order. DeletedAt is the soft-delete tombstone and is
// orthogonal to Status: a tombstoned order keeps its status and can be
// restored into it.
type Order struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	CustomerID uuid.UUID
	Status     OrderStatus
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Lines      []OrderLine
}

// OrderLine is one requested quantity of a stock item within an order.
// ReservationApplied records whether this line's quantity is currently
// counted in its stock item's reserved quantity; it is the idempotency
// guard for release across delete/restore/purge. Fulfilled records that
// the reservation was realized by a deduction: a fulfilled line never
// reserves again, so restoring a tombstoned shipped order cannot turn
// shipped goods back into an open claim.
type OrderLine struct {
	ID                 uuid.UUID
	OrderID            uuid.UUID
	StockItemID        uuid.UUID
	Quantity           int64
	UnitPrice          int64
	ReservationApplied bool
	Fulfilled          bool
}

type OrderFilterInput struct {
	Status         *OrderStatus
	CustomerID     *uuid.UUID
	DateFrom       *time.Time
	DateTo         *time.Time
	IncludeDeleted bool
}

type OrderSortField string

const (
	OrderSortFieldCreatedAt OrderSortField = "CREATED_AT"
	OrderSortFieldStatus    OrderSortField = "STATUS"
)

type SortDirection string

const (
	SortDirectionAsc  SortDirection = "ASC"
	SortDirectionDesc SortDirection = "DESC"
)

type OrderSortInput struct {
	Field     OrderSortField
	Direction SortDirection
}
