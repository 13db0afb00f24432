package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	List(ctx context.Context, tenantID uuid.UUID, search *string) ([]*Customer, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateCustomerInput) (*Customer, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const customerColumns = `id, tenant_id, name, phone, city, created_at, updated_at`

func scanCustomer(row interface {
	Scan(dest ...any) error
}) (*Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.Name,
		&c.Phone,
		&c.City,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Customer) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO customers (id, tenant_id, name, phone, city)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`,
		c.ID, c.TenantID, c.Name, c.Phone, c.City,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func (r *repository) List(ctx context.Context, tenantID uuid.UUID, search *string) ([]*Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE tenant_id = $1
	`
	args := []any{tenantID}

	if search != nil && *search != "" {
		query += " AND name ILIKE $2"
		args = append(args, "%"+*search+"%")
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *repository) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateCustomerInput) (*Customer, error) {
	query := "UPDATE customers SET updated_at = NOW()"
	args := []any{}
	argIndex := 1

	if input.Name != nil {
		query += fmt.Sprintf(", name = $%d", argIndex)
		args = append(args, *input.Name)
		argIndex++
	}
	if input.Phone != nil {
		query += fmt.Sprintf(", phone = $%d", argIndex)
		args = append(args, *input.Phone)
		argIndex++
	}
	if input.City != nil {
		query += fmt.Sprintf(", city = $%d", argIndex)
		args = append(args, *input.City)
		argIndex++
	}

	query += fmt.Sprintf(" WHERE id = $%d AND tenant_id = $%d RETURNING "+customerColumns, argIndex, argIndex+1)
	args = append(args, id, tenantID)

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func (r *repository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM customers WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
