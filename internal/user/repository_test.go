package user

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRows(users ...*User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "email", "password_hash", "role", "created_at", "updated_at",
	})
	for _, u := range users {
		rows.AddRow(
			u.ID.String(), u.TenantID.String(), u.Email, u.PasswordHash,
			string(u.Role), u.CreatedAt, u.UpdatedAt,
		)
	}
	return rows
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	u := &User{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Email:        "staff@pabrik.id",
		PasswordHash: "$2a$10$hash",
		Role:         RoleStaff,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users .* RETURNING created_at, updated_at`).
			WithArgs(u.ID, u.TenantID, u.Email, u.PasswordHash, u.Role).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(time.Now(), time.Now()))

		assert.NoError(t, repo.Create(context.Background(), u))
	})

	t.Run("Duplicate email", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), u)
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	u := &User{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		Email:     "admin@pabrik.id",
		Role:      RoleAdmin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs(u.Email).
			WillReturnRows(userRows(u))

		got, err := repo.FindByEmail(context.Background(), u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, RoleAdmin, got.Role)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
			WithArgs("ghost@pabrik.id").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByEmail(context.Background(), "ghost@pabrik.id")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepositoryListByTenant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	tenantID := uuid.New()
	a := &User{ID: uuid.New(), TenantID: tenantID, Email: "a@pabrik.id", Role: RoleAdmin, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	b := &User{ID: uuid.New(), TenantID: tenantID, Email: "b@pabrik.id", Role: RoleStaff, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	mock.ExpectQuery(`SELECT .* FROM users WHERE tenant_id = \$1 ORDER BY created_at ASC`).
		WithArgs(tenantID).
		WillReturnRows(userRows(a, b))

	users, err := repo.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
