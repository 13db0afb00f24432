package customer

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

func customerRows(customers ...*Customer) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "name", "phone", "city", "created_at", "updated_at",
	})
	for _, c := range customers {
		rows.AddRow(
			c.ID.String(), c.TenantID.String(), c.Name, c.Phone, c.City,
			c.CreatedAt, c.UpdatedAt,
		)
	}
	return rows
}

func TestCustomerRepositoryCreate(t *testing.T) {
	repo, mock, closeFn := newRepoMock(t)
	defer closeFn()

	c := &Customer{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Name:     "Warung Kopi Sari",
	}

	mock.ExpectQuery(`INSERT INTO customers .* RETURNING created_at, updated_at`).
		WithArgs(c.ID, c.TenantID, c.Name, c.Phone, c.City).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))

	assert.NoError(t, repo.Create(context.Background(), c))
}

func TestCustomerRepositoryGetByID(t *testing.T) {
	repo, mock, closeFn := newRepoMock(t)
	defer closeFn()

	tenantID := uuid.New()
	c := &Customer{ID: uuid.New(), TenantID: tenantID, Name: "Toko Murni", CreatedAt: time.Now(), UpdatedAt: time.Now()}

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM customers WHERE id = \$1 AND tenant_id = \$2`).
			WithArgs(c.ID, tenantID).
			WillReturnRows(customerRows(c))

		got, err := repo.GetByID(context.Background(), tenantID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Name, got.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM customers`).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), tenantID, uuid.New())
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestCustomerRepositoryList(t *testing.T) {
	repo, mock, closeFn := newRepoMock(t)
	defer closeFn()

	tenantID := uuid.New()
	search := "kopi"

	mock.ExpectQuery(`SELECT .* FROM customers WHERE tenant_id = \$1 AND name ILIKE \$2 ORDER BY name ASC`).
		WithArgs(tenantID, "%kopi%").
		WillReturnRows(customerRows())

	customers, err := repo.List(context.Background(), tenantID, &search)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestCustomerRepositoryUpdate(t *testing.T) {
	repo, mock, closeFn := newRepoMock(t)
	defer closeFn()

	tenantID := uuid.New()
	c := &Customer{ID: uuid.New(), TenantID: tenantID, Name: "Updated", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	phone := "+62811223344"

	mock.ExpectQuery(`UPDATE customers SET updated_at = NOW\(\), phone = \$1 WHERE id = \$2 AND tenant_id = \$3 RETURNING`).
		WithArgs(phone, c.ID, tenantID).
		WillReturnRows(customerRows(c))

	_, err := repo.Update(context.Background(), tenantID, c.ID, UpdateCustomerInput{Phone: &phone})
	assert.NoError(t, err)
}

func TestCustomerRepositoryDelete(t *testing.T) {
	repo, mock, closeFn := newRepoMock(t)
	defer closeFn()

	tenantID := uuid.New()
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM customers WHERE id = \$1 AND tenant_id = \$2`).
			WithArgs(id, tenantID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), tenantID, id))
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM customers`).
			WithArgs(id, tenantID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), tenantID, id)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}
