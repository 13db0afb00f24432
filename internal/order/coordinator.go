package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pabrikku-be/internal/cache"
	"pabrikku-be/internal/logger"
	"pabrikku-be/internal/metrics"
	"pabrikku-be/internal/stock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Coordinator applies stock reservations, releases and deductions as an
// order moves through its lifecycle. Every operation runs in one database
// transaction spanning the order row lock, the stock row locks and all
// quantity updates; the first failing stock operation aborts the whole
// mutation. Stock rows are locked in the line order returned by
// GetForUpdate (ascending stock_item_id) so concurrent multi-line orders
// touching overlapping items cannot deadlock on lock ordering.
type Coordinator struct {
	db     *sql.DB
	orders Repository
	stock  stock.Repository
	cache  cache.StockCache
}

func NewCoordinator(db *sql.DB, orders Repository, stockRepo stock.Repository, stockCache cache.StockCache) *Coordinator {
	return &Coordinator{
		db:     db,
		orders: orders,
		stock:  stockRepo,
		cache:  stockCache,
	}
}

type LineInput struct {
	StockItemID uuid.UUID
	Quantity    int64
	UnitPrice   int64
}

// CreateDraft creates a new order in DRAFT. Nothing is reserved yet.
func (c *Coordinator) CreateDraft(ctx context.Context, tenantID, customerID uuid.UUID, lines []LineInput) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	o := &Order{
		ID:         uuid.New(),
		TenantID:   tenantID,
		CustomerID: customerID,
		Status:     StatusDraft,
	}

	for _, in := range lines {
		if in.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		o.Lines = append(o.Lines, OrderLine{
			ID:          uuid.New(),
			OrderID:     o.ID,
			StockItemID: in.StockItemID,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		})
	}

	if err := c.orders.CreateOrderTx(ctx, o); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("draft order created",
		zap.String("order_id", o.ID.String()),
		zap.Int("line_count", len(o.Lines)),
	)
	return o, nil
}

// mutate runs fn against the locked order inside one transaction and, on
// commit, invalidates the availability cache for the stock items fn
// reports as touched.
func (c *Coordinator) mutate(ctx context.Context, orderID uuid.UUID, method string, fn func(tx *sql.Tx, o *Order) ([]uuid.UUID, error)) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "coordinator"),
		zap.String("method", method),
		zap.String("order_id", orderID.String()),
	)

	tx, err := c.db.BeginTx(ctx, nil)
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

	o, err := c.orders.GetForUpdate(ctx, tx, orderID)
	if err != nil {
		return err
	}

	touched, err := fn(tx, o)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return err
	}
	committed = true

	if len(touched) > 0 {
		c.cache.Invalidate(ctx, touched...)
	}
	return nil
}

// reserveLine claims line.Quantity on the line's stock item and marks the
// line applied. Lines already applied are skipped, as are fulfilled
// lines: their goods have left the building and cannot be claimed again.
func (c *Coordinator) reserveLine(ctx context.Context, tx *sql.Tx, line *OrderLine) error {
	if line.ReservationApplied || line.Fulfilled {
		return nil
	}

	item, err := c.stock.GetForUpdate(ctx, tx, line.StockItemID)
	if err != nil {
		return err
	}
	if err := item.Reserve(line.Quantity); err != nil {
		return err
	}
	if err := c.stock.SaveQuantities(ctx, tx, item); err != nil {
		return err
	}
	if err := c.orders.SetLineApplied(ctx, tx, line.ID, true); err != nil {
		return err
	}

	line.ReservationApplied = true
	metrics.L().Reserves.Inc()
	return nil
}

// releaseLine gives back a still-applied reservation; deduct realizes it.
// Both clear the applied flag, which is what makes release exactly-once
// across any sequence of cancel/delete/restore/purge. Deduct additionally
// marks the line fulfilled so no later restore re-reserves it.
func (c *Coordinator) releaseLine(ctx context.Context, tx *sql.Tx, line *OrderLine) error {
	if !line.ReservationApplied {
		return nil
	}

	item, err := c.stock.GetForUpdate(ctx, tx, line.StockItemID)
	if err != nil {
		return err
	}
	if err := item.Release(line.Quantity); err != nil {
		return err
	}
	if err := c.stock.SaveQuantities(ctx, tx, item); err != nil {
		return err
	}
	if err := c.orders.SetLineApplied(ctx, tx, line.ID, false); err != nil {
		return err
	}

	line.ReservationApplied = false
	metrics.L().Releases.Inc()
	return nil
}

func (c *Coordinator) deductLine(ctx context.Context, tx *sql.Tx, line *OrderLine) error {
	if !line.ReservationApplied {
		return nil
	}

	item, err := c.stock.GetForUpdate(ctx, tx, line.StockItemID)
	if err != nil {
		return err
	}
	if err := item.Deduct(line.Quantity); err != nil {
		return err
	}
	if err := c.stock.SaveQuantities(ctx, tx, item); err != nil {
		return err
	}
	if err := c.orders.MarkLineFulfilled(ctx, tx, line.ID); err != nil {
		return err
	}

	line.ReservationApplied = false
	line.Fulfilled = true
	metrics.L().Deducts.Inc()
	return nil
}

// SetStatus transitions the order and applies the per-line stock effect
// of the transition table. Transitions outside the table fail with
// ErrInvalidTransition before any stock operation runs.
func (c *Coordinator) SetStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) error {
	return c.mutate(ctx, orderID, "SetStatus", func(tx *sql.Tx, o *Order) ([]uuid.UUID, error) {
		if o.DeletedAt != nil {
			return nil, ErrOrderDeleted
		}

		effect, err := transitionEffect(o.Status, newStatus)
		if err != nil {
			metrics.L().Rejections.Inc()
			return nil, err
		}

		var touched []uuid.UUID
		for i := range o.Lines {
			line := &o.Lines[i]

			var lineErr error
			switch effect {
			case effectReserve:
				lineErr = c.reserveLine(ctx, tx, line)
			case effectDeduct:
				lineErr = c.deductLine(ctx, tx, line)
			case effectRelease:
				lineErr = c.releaseLine(ctx, tx, line)
			case effectNone:
				continue
			}
			if lineErr != nil {
				return nil, lineErr
			}
			touched = append(touched, line.StockItemID)
		}

		if err := c.orders.UpdateStatus(ctx, tx, o.ID, newStatus); err != nil {
			return nil, err
		}

		logger.FromCtx(ctx).Info("order status changed",
			zap.String("order_id", o.ID.String()),
			zap.String("from", string(o.Status)),
			zap.String("to", string(newStatus)),
		)
		return touched, nil
	})
}

// AddLine appends a line; inside a reserving status its quantity is
// reserved immediately.
func (c *Coordinator) AddLine(ctx context.Context, orderID uuid.UUID, input LineInput) (*OrderLine, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	line := &OrderLine{
		ID:          uuid.New(),
		OrderID:     orderID,
		StockItemID: input.StockItemID,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
	}

	err := c.mutate(ctx, orderID, "AddLine", func(tx *sql.Tx, o *Order) ([]uuid.UUID, error) {
		if err := lineMutationAllowed(o); err != nil {
			return nil, err
		}

		if err := c.orders.InsertLine(ctx, tx, line); err != nil {
			return nil, err
		}

		if !IsReserving(o.Status) {
			return nil, nil
		}
		if err := c.reserveLine(ctx, tx, line); err != nil {
			return nil, err
		}
		return []uuid.UUID{line.StockItemID}, nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateLineQuantity reserves or releases exactly the delta when the
// order is in a reserving status. Net-zero changes are no-ops.
func (c *Coordinator) UpdateLineQuantity(ctx context.Context, orderID, lineID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return c.mutate(ctx, orderID, "UpdateLineQuantity", func(tx *sql.Tx, o *Order) ([]uuid.UUID, error) {
		if err := lineMutationAllowed(o); err != nil {
			return nil, err
		}

		line := findLine(o, lineID)
		if line == nil {
			return nil, ErrLineNotFound
		}

		if !IsReserving(o.Status) {
			return nil, c.orders.UpdateLineQuantity(ctx, tx, lineID, quantity)
		}

		// A line whose reservation was already realized by a deduct has
		// shipped; its quantity is history, not an open claim.
		if line.Fulfilled || !line.ReservationApplied {
			return nil, ErrLineAlreadyFulfilled
		}

		delta := quantity - line.Quantity
		if delta != 0 {
			item, err := c.stock.GetForUpdate(ctx, tx, line.StockItemID)
			if err != nil {
				return nil, err
			}

			if delta > 0 {
				err = item.Reserve(delta)
			} else {
				err = item.Release(-delta)
			}
			if err != nil {
				return nil, err
			}

			if delta > 0 {
				metrics.L().Reserves.Inc()
			} else {
				metrics.L().Releases.Inc()
			}

			if err := c.stock.SaveQuantities(ctx, tx, item); err != nil {
				return nil, err
			}
		}

		if err := c.orders.UpdateLineQuantity(ctx, tx, lineID, quantity); err != nil {
			return nil, err
		}
		return []uuid.UUID{line.StockItemID}, nil
	})
}

// RemoveLine deletes a line, releasing its reservation first when one is
// still applied.
func (c *Coordinator) RemoveLine(ctx context.Context, orderID, lineID uuid.UUID) error {
	return c.mutate(ctx, orderID, "RemoveLine", func(tx *sql.Tx, o *Order) ([]uuid.UUID, error) {
		if err := lineMutationAllowed(o); err != nil {
			return nil, err
		}

		line := findLine(o, lineID)
		if line == nil {
			return nil, ErrLineNotFound
		}

		if err := c.releaseLine(ctx, tx, line); err != nil {
			return nil, err
		}
		if err := c.orders.DeleteLine(ctx, tx, lineID); err != nil {
			return nil, err
		}
		return []uuid.UUID{line.StockItemID}, nil
	})
}

// SoftDelete tombstones the order, releasing every still-applied
// reservation. Deleting an already-tombstoned order is a no-op.
func (c *Coordinator) SoftDelete(ctx context.Context, orderID uuid.UUID) error {
	return c.mutate(ctx, orderID, "SoftDelete", func(tx *sql.Tx, o *Order) ([]uuid.UUID, error) {
		if o.DeletedAt != nil {
			return nil, nil
		}

		touched, err := c.releaseAll(ctx, tx, o)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		if err := c.orders.SetDeletedAt(ctx, tx, o.ID, &now); err != nil {
			return nil, err
		}
		return touched, nil
	})
}

// Restore clears the tombstone and, in a reserving status, re-reserves
// every unfulfilled line. Fulfilled lines stay realized: a shipped
// order comes back with its lines as history, not as open claims.
// Insufficient stock aborts the restore entirely; the order stays
// tombstoned.
func (c *Coordinator) Restore(ctx context.Context, orderID uuid.UUID) error {
	return c.mutate(ctx, orderID, "Restore", func(tx *sql.Tx, o *Order) ([]uuid.UUID, error) {
		if o.DeletedAt == nil {
			return nil, nil
		}

		var touched []uuid.UUID
		if IsReserving(o.Status) {
			for i := range o.Lines {
				line := &o.Lines[i]
				if line.Fulfilled {
					continue
				}
				if err := c.reserveLine(ctx, tx, line); err != nil {
					return nil, err
				}
				touched = append(touched, line.StockItemID)
			}
		}

		if err := c.orders.SetDeletedAt(ctx, tx, o.ID, nil); err != nil {
			return nil, err
		}
		return touched, nil
	})
}

// Purge permanently removes the order. A tombstoned order's reservations
// were already released by the soft-delete, so purging has no stock
// effect; purging a live order releases exactly what is still applied.
// Purging an order that no longer exists is a no-op.
func (c *Coordinator) Purge(ctx context.Context, orderID uuid.UUID) error {
	err := c.mutate(ctx, orderID, "Purge", func(tx *sql.Tx, o *Order) ([]uuid.UUID, error) {
		var touched []uuid.UUID
		if o.DeletedAt == nil {
			var err error
			touched, err = c.releaseAll(ctx, tx, o)
			if err != nil {
				return nil, err
			}
		}

		if err := c.orders.DeleteOrder(ctx, tx, o.ID); err != nil {
			return nil, err
		}
		return touched, nil
	})
	if errors.Is(err, ErrOrderNotFound) {
		return nil
	}
	return err
}

func (c *Coordinator) releaseAll(ctx context.Context, tx *sql.Tx, o *Order) ([]uuid.UUID, error) {
	var touched []uuid.UUID
	for i := range o.Lines {
		line := &o.Lines[i]
		if !line.ReservationApplied {
			continue
		}
		if err := c.releaseLine(ctx, tx, line); err != nil {
			return nil, err
		}
		touched = append(touched, line.StockItemID)
	}
	return touched, nil
}

func lineMutationAllowed(o *Order) error {
	if o.DeletedAt != nil {
		return ErrOrderDeleted
	}
	switch o.Status {
	case StatusCompleted, StatusCancelled:
		metrics.L().Rejections.Inc()
		return ErrOrderNotEditable
	}
	return nil
}

func findLine(o *Order, lineID uuid.UUID) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			return &o.Lines[i]
		}
	}
	return nil
}
