package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newItem(onHand, reserved int64) *StockItem {
	return &StockItem{OnHand: onHand, Reserved: reserved, Status: StatusAvailable}
}

func assertInvariant(t *testing.T, s *StockItem) {
	t.Helper()
	assert.GreaterOrEqual(t, s.Reserved, int64(0))
	assert.LessOrEqual(t, s.Reserved, s.OnHand)
}

func TestStockItem_Available(t *testing.T) {
	assert.Equal(t, int64(90), newItem(100, 10).Available())
	assert.Equal(t, int64(0), newItem(5, 5).Available())
}

func TestStockItem_Reserve(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := newItem(100, 0)
		assert.NoError(t, s.Reserve(10))
		assert.Equal(t, int64(100), s.OnHand)
		assert.Equal(t, int64(10), s.Reserved)
		assertInvariant(t, s)
	})

	t.Run("Exactly available", func(t *testing.T) {
		s := newItem(10, 4)
		assert.NoError(t, s.Reserve(6))
		assert.Equal(t, int64(10), s.Reserved)
		assertInvariant(t, s)
	})

	t.Run("Insufficient leaves state unchanged", func(t *testing.T) {
		s := newItem(5, 0)
		err := s.Reserve(10)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, int64(5), s.OnHand)
		assert.Equal(t, int64(0), s.Reserved)
	})

	t.Run("Non-positive quantity", func(t *testing.T) {
		s := newItem(5, 0)
		assert.ErrorIs(t, s.Reserve(0), ErrInvalidQuantity)
		assert.ErrorIs(t, s.Reserve(-3), ErrInvalidQuantity)
		assert.Equal(t, int64(0), s.Reserved)
	})
}

func TestStockItem_Release(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := newItem(100, 10)
		assert.NoError(t, s.Release(10))
		assert.Equal(t, int64(100), s.OnHand)
		assert.Equal(t, int64(0), s.Reserved)
		assertInvariant(t, s)
	})

	t.Run("Underflow is never clamped", func(t *testing.T) {
		s := newItem(100, 4)
		err := s.Release(5)
		assert.ErrorIs(t, err, ErrReservationUnderflow)
		assert.Equal(t, int64(4), s.Reserved)
	})

	t.Run("Non-positive quantity", func(t *testing.T) {
		s := newItem(100, 4)
		assert.ErrorIs(t, s.Release(0), ErrInvalidQuantity)
	})
}

func TestStockItem_Deduct(t *testing.T) {
	t.Run("Success drops both quantities", func(t *testing.T) {
		s := newItem(100, 10)
		assert.NoError(t, s.Deduct(10))
		assert.Equal(t, int64(90), s.OnHand)
		assert.Equal(t, int64(0), s.Reserved)
		assertInvariant(t, s)
	})

	t.Run("Never deducts beyond reservation", func(t *testing.T) {
		s := newItem(100, 3)
		err := s.Deduct(5)
		assert.ErrorIs(t, err, ErrReservationUnderflow)
		assert.Equal(t, int64(100), s.OnHand)
		assert.Equal(t, int64(3), s.Reserved)
	})

	t.Run("Non-positive quantity", func(t *testing.T) {
		s := newItem(100, 3)
		assert.ErrorIs(t, s.Deduct(-1), ErrInvalidQuantity)
	})
}
