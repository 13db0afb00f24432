package stock

import (
	"context"
	"database/sql"
	"errors"

	"pabrikku-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, item *StockItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*StockItem, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error)
	ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	AddOnHand(ctx context.Context, id uuid.UUID, quantity int64) error
	Delete(ctx context.Context, id uuid.UUID) error

	// GetForUpdate loads the item under a row-level lock inside the
	// caller's transaction. Only the fulfillment coordinator may pair it
	// with SaveQuantities to mutate on-hand/reserved.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*StockItem, error)
	SaveQuantities(ctx context.Context, tx *sql.Tx, item *StockItem) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const stockColumns = `id, tenant_id, product_id, name, on_hand_quantity, reserved_quantity, minimum_quantity, status, created_at, updated_at`

func scanStockItem(row interface {
	Scan(dest ...any) error
}) (*StockItem, error) {
	var s StockItem
	err := row.Scan(
		&s.ID,
		&s.TenantID,
		&s.ProductID,
		&s.Name,
		&s.OnHand,
		&s.Reserved,
		&s.Minimum,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, item *StockItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stock_items (
			id, tenant_id, product_id, name,
			on_hand_quantity, reserved_quantity, minimum_quantity, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		item.ID,
		item.TenantID,
		item.ProductID,
		item.Name,
		item.OnHand,
		item.Reserved,
		item.Minimum,
		item.Status,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert stock item",
			zap.String("stock_item_id", item.ID.String()),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*StockItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+stockColumns+`
		FROM stock_items
		WHERE id = $1
	`, id)

	item, err := scanStockItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStockItemNotFound
	}
	return item, err
}

func (r *repository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*StockItem, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+stockColumns+`
		FROM stock_items
		WHERE id = $1
		FOR UPDATE
	`, id)

	item, err := scanStockItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStockItemNotFound
	}
	return item, err
}

func (r *repository) SaveQuantities(ctx context.Context, tx *sql.Tx, item *StockItem) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE stock_items
		SET on_hand_quantity = $1,
		    reserved_quantity = $2,
		    updated_at = NOW()
		WHERE id = $3
	`, item.OnHand, item.Reserved, item.ID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrStockItemNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+stockColumns+`
		FROM stock_items
		WHERE tenant_id = $1
		ORDER BY name ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStockItems(rows)
}

func (r *repository) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]*StockItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+stockColumns+`
		FROM stock_items
		WHERE tenant_id = $1
		  AND on_hand_quantity - reserved_quantity < minimum_quantity
		ORDER BY name ASC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStockItems(rows)
}

func collectStockItems(rows *sql.Rows) ([]*StockItem, error) {
	var items []*StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stock_items
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrStockItemNotFound
	}
	return nil
}

// AddOnHand tops up on-hand stock when a production batch is received.
// The arithmetic runs in the database so concurrent receipts never lose
// an update.
func (r *repository) AddOnHand(ctx context.Context, id uuid.UUID, quantity int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stock_items
		SET on_hand_quantity = on_hand_quantity + $1, updated_at = NOW()
		WHERE id = $2
	`, quantity, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrStockItemNotFound
	}
	return nil
}

// Delete refuses to remove an item that still carries a reservation.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM stock_items
		WHERE id = $1 AND reserved_quantity = 0
	`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrStockItemReserved
	}
	return nil
}
