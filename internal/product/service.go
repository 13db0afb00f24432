package product

import (
	"context"
	"strings"
	"time"

	"pabrikku-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, input NewProductInput) (*Product, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateProductInput) (*Product, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	GetList(ctx context.Context, tenantID uuid.UUID, filter *ProductFilterInput, sort *ProductSortInput, limit, page *int32) ([]*Product, error)
	Archive(ctx context.Context, tenantID, id uuid.UUID) error
	Unarchive(ctx context.Context, tenantID, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, input NewProductInput) (*Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEmptyName
	}
	if input.UnitPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	p := &Product{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        strings.TrimSpace(input.Name),
		SKU:         strings.TrimSpace(input.SKU),
		Description: input.Description,
		UnitPrice:   input.UnitPrice,
		Status:      StatusActive,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.String("sku", p.SKU),
	)
	return p, nil
}

func hasAnyUpdateField(input UpdateProductInput) bool {
	return input.Name != nil ||
		input.SKU != nil ||
		input.Description != nil ||
		input.UnitPrice != nil
}

func (s *service) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateProductInput) (*Product, error) {
	if !hasAnyUpdateField(input) {
		return nil, ErrNoUpdateFields
	}

	// Validate only provided fields.
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrEmptyName
	}
	if input.UnitPrice != nil && *input.UnitPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	return s.repo.Update(ctx, tenantID, id, input)
}

func (s *service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

func (s *service) GetList(
	ctx context.Context,
	tenantID uuid.UUID,
	filter *ProductFilterInput,
	sort *ProductSortInput,
	limit, page *int32,
) ([]*Product, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetList"),
	)

	start := time.Now()

	products, err := s.repo.List(ctx, tenantID, filter, sort, limit, page)
	if err != nil {
		log.Error("failed to fetch product list",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	log.Debug("get product list success",
		zap.Int("count", len(products)),
		zap.Duration("duration", time.Since(start)),
	)
	return products, nil
}

func (s *service) Archive(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.SetStatus(ctx, tenantID, id, StatusArchived)
}

func (s *service) Unarchive(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.SetStatus(ctx, tenantID, id, StatusActive)
}
