package stock

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"pabrikku-be/internal/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, item *StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*StockItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockItem), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*StockItem), args.Error(1)
}

func (m *MockRepository) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*StockItem), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRepository) AddOnHand(ctx context.Context, id uuid.UUID, quantity int64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*StockItem, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StockItem), args.Error(1)
}

func (m *MockRepository) SaveQuantities(ctx context.Context, tx *sql.Tx, item *StockItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

// memCache is a map-backed StockCache recording invalidations.
type memCache struct {
	values      map[uuid.UUID]int64
	invalidated []uuid.UUID
	getErr      error
}

func newMemCache() *memCache {
	return &memCache{values: make(map[uuid.UUID]int64)}
}

func (c *memCache) GetAvailable(ctx context.Context, id uuid.UUID) (int64, error) {
	if c.getErr != nil {
		return 0, c.getErr
	}
	if v, ok := c.values[id]; ok {
		return v, nil
	}
	return 0, cache.ErrMiss
}

func (c *memCache) SetAvailable(ctx context.Context, id uuid.UUID, available int64) error {
	c.values[id] = available
	return nil
}

func (c *memCache) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	for _, id := range ids {
		c.invalidated = append(c.invalidated, id)
		delete(c.values, id)
	}
}

func TestServiceReceiveBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Top up existing item and invalidate snapshot", func(t *testing.T) {
		repo := new(MockRepository)
		mc := newMemCache()
		svc := NewService(repo, mc)

		id := uuid.New()
		tenantID := uuid.New()
		mc.values[id] = 40

		repo.On("GetByID", ctx, id).Return(&StockItem{ID: id, TenantID: tenantID, OnHand: 40}, nil).Once()
		repo.On("AddOnHand", ctx, id, int64(25)).Return(nil)
		repo.On("GetByID", ctx, id).Return(&StockItem{ID: id, TenantID: tenantID, OnHand: 65}, nil)

		item, err := svc.ReceiveBatch(ctx, &id, ReceiveBatchInput{TenantID: tenantID, Quantity: 25})
		require.NoError(t, err)
		assert.Equal(t, int64(65), item.OnHand)
		assert.Equal(t, []uuid.UUID{id}, mc.invalidated)
		repo.AssertExpectations(t)
	})

	t.Run("Top up of another tenant's item looks like not found", func(t *testing.T) {
		repo := new(MockRepository)
		mc := newMemCache()
		svc := NewService(repo, mc)

		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(&StockItem{ID: id, TenantID: uuid.New(), OnHand: 40}, nil)

		_, err := svc.ReceiveBatch(ctx, &id, ReceiveBatchInput{TenantID: uuid.New(), Quantity: 25})
		assert.ErrorIs(t, err, ErrStockItemNotFound)
		repo.AssertNotCalled(t, "AddOnHand", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, mc.invalidated)
	})

	t.Run("New item starts with zero reserved", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, newMemCache())

		tenantID := uuid.New()
		repo.On("Create", ctx, mock.MatchedBy(func(item *StockItem) bool {
			return item.TenantID == tenantID &&
				item.OnHand == 50 &&
				item.Reserved == 0 &&
				item.Status == StatusAvailable
		})).Return(nil)

		item, err := svc.ReceiveBatch(ctx, nil, ReceiveBatchInput{
			TenantID: tenantID,
			Name:     "roasted beans 1kg",
			Quantity: 50,
			Minimum:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(50), item.Available())
		repo.AssertExpectations(t)
	})

	t.Run("Non-positive quantity rejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, newMemCache())

		_, err := svc.ReceiveBatch(ctx, nil, ReceiveBatchInput{Quantity: 0})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestServiceGetAvailability(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Cache hit skips the database", func(t *testing.T) {
		repo := new(MockRepository)
		mc := newMemCache()
		mc.values[id] = 17
		svc := NewService(repo, mc)

		available, err := svc.GetAvailability(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(17), available)
		repo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Cache miss falls back and fills the snapshot", func(t *testing.T) {
		repo := new(MockRepository)
		mc := newMemCache()
		svc := NewService(repo, mc)

		repo.On("GetByID", ctx, id).Return(&StockItem{ID: id, OnHand: 30, Reserved: 12}, nil)

		available, err := svc.GetAvailability(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(18), available)
		assert.Equal(t, int64(18), mc.values[id])
	})

	t.Run("Cache failure is not fatal", func(t *testing.T) {
		repo := new(MockRepository)
		mc := newMemCache()
		mc.getErr = errors.New("connection refused")
		svc := NewService(repo, mc)

		repo.On("GetByID", ctx, id).Return(&StockItem{ID: id, OnHand: 9, Reserved: 4}, nil)

		available, err := svc.GetAvailability(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(5), available)
	})

	t.Run("Unknown item", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, newMemCache())

		repo.On("GetByID", ctx, id).Return(nil, ErrStockItemNotFound)

		_, err := svc.GetAvailability(ctx, id)
		assert.ErrorIs(t, err, ErrStockItemNotFound)
	})
}

func TestServiceMarkStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, cache.Noop())
	id := uuid.New()

	repo.On("UpdateStatus", ctx, id, StatusDamaged).Return(nil)

	assert.NoError(t, svc.MarkStatus(ctx, id, StatusDamaged))

	err := svc.MarkStatus(ctx, id, Status("MELTED"))
	assert.Error(t, err)
	repo.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Drops the snapshot on success", func(t *testing.T) {
		repo := new(MockRepository)
		mc := newMemCache()
		mc.values[id] = 3
		svc := NewService(repo, mc)

		repo.On("Delete", ctx, id).Return(nil)

		require.NoError(t, svc.Delete(ctx, id))
		assert.Equal(t, []uuid.UUID{id}, mc.invalidated)
	})

	t.Run("Reserved item refuses deletion", func(t *testing.T) {
		repo := new(MockRepository)
		mc := newMemCache()
		svc := NewService(repo, mc)

		repo.On("Delete", ctx, id).Return(ErrStockItemReserved)

		err := svc.Delete(ctx, id)
		assert.ErrorIs(t, err, ErrStockItemReserved)
		assert.Empty(t, mc.invalidated)
	})
}
