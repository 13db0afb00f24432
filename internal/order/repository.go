package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pabrikku-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx persists a draft order with its lines atomically.
	CreateOrderTx(ctx context.Context, o *Order) error

	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FetchOrders(ctx context.Context, tenantID uuid.UUID, filter *OrderFilterInput, sort *OrderSortInput, limit, page *int32) ([]*Order, error)

	// GetForUpdate loads the order row under a row lock, with its lines
	// ordered by stock_item_id ascending so the coordinator acquires stock
	// row locks in a stable order across concurrent multi-line orders.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*Order, error)

	UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status OrderStatus) error
	SetDeletedAt(ctx context.Context, tx *sql.Tx, id uuid.UUID, deletedAt *time.Time) error
	DeleteOrder(ctx context.Context, tx *sql.Tx, id uuid.UUID) error

	InsertLine(ctx context.Context, tx *sql.Tx, line *OrderLine) error
	UpdateLineQuantity(ctx context.Context, tx *sql.Tx, lineID uuid.UUID, quantity int64) error
	SetLineApplied(ctx context.Context, tx *sql.Tx, lineID uuid.UUID, applied bool) error

	// MarkLineFulfilled records that the line's reservation was realized
	// by a deduction. It clears the applied flag in the same statement.
	MarkLineFulfilled(ctx context.Context, tx *sql.Tx, lineID uuid.UUID) error

	DeleteLine(ctx context.Context, tx *sql.Tx, lineID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID.String()),
		zap.Int("line_count", len(o.Lines)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, tenant_id, customer_id, status)
		VALUES ($1,$2,$3,$4)
	`, o.ID, o.TenantID, o.CustomerID, o.Status)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i := range o.Lines {
		if err := r.InsertLine(ctx, tx, &o.Lines[i]); err != nil {
			log.Error("failed to insert order line",
				zap.Int("line_index", i),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return err
	}

	committed = true
	return nil
}

const orderColumns = `id, tenant_id, customer_id, status, deleted_at, created_at, updated_at`

func scanOrder(row interface {
	Scan(dest ...any) error
}) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.TenantID,
		&o.CustomerID,
		&o.Status,
		&o.DeletedAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, stock_item_id, quantity, unit_price, reservation_applied, fulfilled
		FROM order_lines
		WHERE order_id = $1
		ORDER BY stock_item_id ASC, id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o.Lines, err = collectLines(rows)
	return o, err
}

func (r *repository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*Order, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, order_id, stock_item_id, quantity, unit_price, reservation_applied, fulfilled
		FROM order_lines
		WHERE order_id = $1
		ORDER BY stock_item_id ASC, id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o.Lines, err = collectLines(rows)
	return o, err
}

func collectLines(rows *sql.Rows) ([]OrderLine, error) {
	var lines []OrderLine
	for rows.Next() {
		var l OrderLine
		err := rows.Scan(
			&l.ID,
			&l.OrderID,
			&l.StockItemID,
			&l.Quantity,
			&l.UnitPrice,
			&l.ReservationApplied,
			&l.Fulfilled,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) FetchOrders(
	ctx context.Context,
	tenantID uuid.UUID,
	filter *OrderFilterInput,
	sort *OrderSortInput,
	limit, page *int32,
) ([]*Order, error) {

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

	log := logger.FromCtx(ctx).With(
		zap.String("method", "FetchOrders"),
		zap.Int32("limit", finalLimit),
		zap.Int32("page", finalPage),
	)

	query := `
		SELECT o.id, o.tenant_id, o.customer_id, o.status, o.deleted_at, o.created_at, o.updated_at
		FROM orders o
		WHERE o.tenant_id = $1
	`

	args := []any{tenantID}
	argIndex := 2

	if filter == nil || !filter.IncludeDeleted {
		query += " AND o.deleted_at IS NULL"
	}

	if filter != nil {
		if filter.Status != nil && *filter.Status != "" {
			query += fmt.Sprintf(" AND o.status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}

		if filter.CustomerID != nil {
			query += fmt.Sprintf(" AND o.customer_id = $%d", argIndex)
			args = append(args, *filter.CustomerID)
			argIndex++
		}

		if filter.DateFrom != nil {
			query += fmt.Sprintf(" AND o.created_at >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}

		if filter.DateTo != nil {
			query += fmt.Sprintf(" AND o.created_at <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	orderBy := "o.created_at DESC"

	if sort != nil {
		dir := "DESC"
		if sort.Direction == SortDirectionAsc {
			dir = "ASC"
		}

		switch sort.Field {
		case OrderSortFieldStatus:
			orderBy = "o.status " + dir
		case OrderSortFieldCreatedAt:
			orderBy = "o.created_at " + dir
		}
	}

	query += " ORDER BY " + orderBy
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, finalLimit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("fetch orders success", zap.Int("count", len(orders)))
	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status OrderStatus) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) SetDeletedAt(ctx context.Context, tx *sql.Tx, id uuid.UUID, deletedAt *time.Time) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET deleted_at = $1, updated_at = NOW() WHERE id = $2
	`, deletedAt, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) DeleteOrder(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, id); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

func (r *repository) InsertLine(ctx context.Context, tx *sql.Tx, line *OrderLine) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_lines (id, order_id, stock_item_id, quantity, unit_price, reservation_applied, fulfilled)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		line.ID,
		line.OrderID,
		line.StockItemID,
		line.Quantity,
		line.UnitPrice,
		line.ReservationApplied,
		line.Fulfilled,
	)
	return err
}

func (r *repository) UpdateLineQuantity(ctx context.Context, tx *sql.Tx, lineID uuid.UUID, quantity int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE order_lines SET quantity = $1 WHERE id = $2
	`, quantity, lineID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *repository) SetLineApplied(ctx context.Context, tx *sql.Tx, lineID uuid.UUID, applied bool) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE order_lines SET reservation_applied = $1 WHERE id = $2
	`, applied, lineID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *repository) MarkLineFulfilled(ctx context.Context, tx *sql.Tx, lineID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE order_lines SET reservation_applied = FALSE, fulfilled = TRUE WHERE id = $1
	`, lineID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *repository) DeleteLine(ctx context.Context, tx *sql.Tx, lineID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE id = $1`, lineID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}
