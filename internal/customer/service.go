package customer

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, tenantID uuid.UUID, input NewCustomerInput) (*Customer, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	List(ctx context.Context, tenantID uuid.UUID, search *string) ([]*Customer, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateCustomerInput) (*Customer, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, tenantID uuid.UUID, input NewCustomerInput) (*Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEmptyName
	}

	c := &Customer{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     strings.TrimSpace(input.Name),
		Phone:    input.Phone,
		City:     input.City,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID, search *string) ([]*Customer, error) {
	return s.repo.List(ctx, tenantID, search)
}

func (s *service) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateCustomerInput) (*Customer, error) {
	if input.Name == nil && input.Phone == nil && input.City == nil {
		return nil, ErrNoUpdateFields
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrEmptyName
	}
	return s.repo.Update(ctx, tenantID, id, input)
}

func (s *service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}
