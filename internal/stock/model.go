package stock

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusDamaged   Status = "DAMAGED"
	StatusExpired   Status = "EXPIRED"
)

// StockItem holds the on-hand and reserved quantity for one saleable unit.
// OnHand and Reserved are only ever mutated through Reserve, Release and
// Deduct while the row lock is held; 0 <= Reserved <= OnHand holds at all
// observable points.
type StockItem struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	ProductID uuid.UUID
	Name      string
	OnHand    int64
	Reserved  int64
	Minimum   int64
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available is the quantity that can still be newly reserved.
func (s *StockItem) Available() int64 {
	return s.OnHand - s.Reserved
}

// Reserve claims quantity against on-hand stock without reducing it.
// On failure the item is left unchanged.
func (s *StockItem) Reserve(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > s.Available() {
		return ErrInsufficientStock
	}
	s.Reserved += quantity
	return nil
}

// Release cancels a reservation. Releasing more than is currently
// reserved is an invariant violation and is never clamped.
func (s *StockItem) Release(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > s.Reserved {
		return ErrReservationUnderflow
	}
	s.Reserved -= quantity
	return nil
}

// Deduct realizes a reservation as a shipment: both on-hand and reserved
// drop together. It never deducts stock that was not first reserved.
func (s *StockItem) Deduct(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > s.Reserved {
		return ErrReservationUnderflow
	}
	if quantity > s.OnHand {
		return ErrReservationUnderflow
	}
	s.OnHand -= quantity
	s.Reserved -= quantity
	return nil
}
