package user

import (
	"context"
	"strings"

	"pabrikku-be/internal/auth"
	"pabrikku-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// Register creates a tenant user with a bcrypt-hashed password.
	Register(ctx context.Context, tenantID uuid.UUID, input RegisterInput) (*User, error)
	// Login checks the password and issues a JWT carrying user_id,
	// tenant_id and role.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, tenantID uuid.UUID, input RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	if len(input.Password) < 8 {
		return nil, ErrWeakPassword
	}

	role := input.Role
	if role == "" {
		role = RoleStaff
	}
	switch role {
	case RoleAdmin, RoleStaff:
	default:
		return nil, ErrInvalidRole
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
	)
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Same answer for unknown email and bad password.
		logger.FromCtx(ctx).Warn("login failed", zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, u.PasswordHash) {
		logger.FromCtx(ctx).Warn("login failed",
			zap.String("user_id", u.ID.String()),
		)
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.ID, u.TenantID, string(u.Role), u.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: u}, nil
}

func (s *service) List(ctx context.Context, tenantID uuid.UUID) ([]*User, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}
