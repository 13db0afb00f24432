package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pabrikku-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	List(ctx context.Context, tenantID uuid.UUID, filter *ProductFilterInput, sort *ProductSortInput, limit, page *int32) ([]*Product, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateProductInput) (*Product, error)
	SetStatus(ctx context.Context, tenantID, id uuid.UUID, status Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, tenant_id, name, sku, description, unit_price, status, created_at, updated_at`

func scanProduct(row interface {
	Scan(dest ...any) error
}) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.TenantID,
		&p.Name,
		&p.SKU,
		&p.Description,
		&p.UnitPrice,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, tenant_id, name, sku, description, unit_price, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`,
		p.ID, p.TenantID, p.Name, p.SKU, p.Description, p.UnitPrice, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicateSKU
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	filter *ProductFilterInput,
	sort *ProductSortInput,
	limit, page *int32,
) ([]*Product, error) {

	finalLimit := int32(20)
	finalPage := int32(1)

	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	if page != nil && *page > 0 {
		finalPage = *page
	}
	if finalLimit > 100 {
		finalLimit = 100
	}

	offset := (finalPage - 1) * finalLimit

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1
	`

	args := []any{tenantID}
	argIndex := 2

	if filter == nil || !filter.IncludeArchived {
		query += fmt.Sprintf(" AND status != $%d", argIndex)
		args = append(args, StatusArchived)
		argIndex++
	}

	if filter != nil {
		if filter.Status != nil && *filter.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}

		if filter.Search != nil && *filter.Search != "" {
			query += fmt.Sprintf(" AND (name ILIKE $%d OR sku ILIKE $%d)", argIndex, argIndex)
			args = append(args, "%"+*filter.Search+"%")
			argIndex++
		}
	}

	orderBy := "created_at DESC"

	if sort != nil {
		dir := "DESC"
		if sort.Direction == SortDirectionAsc {
			dir = "ASC"
		}

		switch sort.Field {
		case ProductSortFieldName:
			orderBy = "name " + dir
		case ProductSortFieldUnitPrice:
			orderBy = "unit_price " + dir
		case ProductSortFieldCreatedAt:
			orderBy = "created_at " + dir
		}
	}

	query += " ORDER BY " + orderBy
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateProductInput) (*Product, error) {
	query := "UPDATE products SET updated_at = NOW()"
	args := []any{}
	argIndex := 1

	if input.Name != nil {
		query += fmt.Sprintf(", name = $%d", argIndex)
		args = append(args, *input.Name)
		argIndex++
	}
	if input.SKU != nil {
		query += fmt.Sprintf(", sku = $%d", argIndex)
		args = append(args, *input.SKU)
		argIndex++
	}
	if input.Description != nil {
		query += fmt.Sprintf(", description = $%d", argIndex)
		args = append(args, *input.Description)
		argIndex++
	}
	if input.UnitPrice != nil {
		query += fmt.Sprintf(", unit_price = $%d", argIndex)
		args = append(args, *input.UnitPrice)
		argIndex++
	}

	query += fmt.Sprintf(" WHERE id = $%d AND tenant_id = $%d RETURNING "+productColumns, argIndex, argIndex+1)
	args = append(args, id, tenantID)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSKU
	}
	return p, err
}

func (r *repository) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET status = $1, updated_at = NOW() WHERE id = $2 AND tenant_id = $3
	`, status, id, tenantID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
