package stock

import (
	"context"
	"errors"

	"pabrikku-be/internal/cache"
	"pabrikku-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReceiveBatchInput struct {
	TenantID  uuid.UUID
	ProductID uuid.UUID
	Name      string
	Quantity  int64
	Minimum   int64
}

type Service interface {
	// ReceiveBatch records a finished production batch into stock: it tops
	// up an existing item or creates one with reserved_quantity = 0.
	ReceiveBatch(ctx context.Context, itemID *uuid.UUID, input ReceiveBatchInput) (*StockItem, error)

	GetItem(ctx context.Context, id uuid.UUID) (*StockItem, error)
	GetAvailability(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error)
	ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error)
	MarkStatus(ctx context.Context, id uuid.UUID, status Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	cache cache.StockCache
}

func NewService(repo Repository, stockCache cache.StockCache) Service {
	return &service{repo: repo, cache: stockCache}
}

func (s *service) ReceiveBatch(ctx context.Context, itemID *uuid.UUID, input ReceiveBatchInput) (*StockItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ReceiveBatch"),
		zap.Int64("quantity", input.Quantity),
	)

	if input.Quantity <= 0 {
		log.Warn("invalid batch quantity")
		return nil, ErrInvalidQuantity
	}

	if itemID != nil {
		existing, err := s.repo.GetByID(ctx, *itemID)
		if err != nil {
			return nil, err
		}
		// Items from another tenant look like they don't exist.
		if existing.TenantID != input.TenantID {
			return nil, ErrStockItemNotFound
		}

		if err := s.repo.AddOnHand(ctx, *itemID, input.Quantity); err != nil {
			log.Error("failed to top up stock item", zap.Error(err))
			return nil, err
		}
		s.cache.Invalidate(ctx, *itemID)
		return s.repo.GetByID(ctx, *itemID)
	}

	item := &StockItem{
		ID:        uuid.New(),
		TenantID:  input.TenantID,
		ProductID: input.ProductID,
		Name:      input.Name,
		OnHand:    input.Quantity,
		Reserved:  0,
		Minimum:   input.Minimum,
		Status:    StatusAvailable,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	log.Info("stock item created from production batch",
		zap.String("stock_item_id", item.ID.String()),
	)
	return item, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*StockItem, error) {
	return s.repo.GetByID(ctx, id)
}

// GetAvailability serves the read-only availability figure through the
// snapshot cache; the database stays authoritative on a miss.
func (s *service) GetAvailability(ctx context.Context, id uuid.UUID) (int64, error) {
	if available, err := s.cache.GetAvailable(ctx, id); err == nil {
		return available, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.FromCtx(ctx).Warn("stock cache read failed",
			zap.String("stock_item_id", id.String()),
			zap.Error(err),
		)
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := s.cache.SetAvailable(ctx, id, item.Available()); err != nil {
		logger.FromCtx(ctx).Warn("stock cache write failed",
			zap.String("stock_item_id", id.String()),
			zap.Error(err),
		)
	}

	return item.Available(), nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *service) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error) {
	return s.repo.ListLowStock(ctx, tenantID)
}

func (s *service) MarkStatus(ctx context.Context, id uuid.UUID, status Status) error {
	switch status {
	case StatusAvailable, StatusDamaged, StatusExpired:
	default:
		return errors.New("unknown stock status: " + string(status))
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}
