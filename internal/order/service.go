package order

import (
	"context"

	"pabrikku-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service covers the read side: listings for the UI and the diagnostic
// order detail with per-line reservation flags. All writes go through
// the Coordinator.
type Service interface {
	GetOrders(ctx context.Context, tenantID uuid.UUID, filter *OrderFilterInput, sort *OrderSortInput, limit, page *int32) ([]*Order, error)
	GetOrderDetail(ctx context.Context, tenantID, orderID uuid.UUID) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrders(ctx context.Context, tenantID uuid.UUID, filter *OrderFilterInput, sort *OrderSortInput, limit, page *int32) ([]*Order, error) {
	return s.repo.FetchOrders(ctx, tenantID, filter, sort, limit, page)
}

func (s *service) GetOrderDetail(ctx context.Context, tenantID, orderID uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.TenantID != tenantID {
		logger.FromCtx(ctx).Warn("order detail requested across tenants",
			zap.String("order_id", orderID.String()),
		)
		return nil, ErrOrderNotFound
	}

	return o, nil
}
