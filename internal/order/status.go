package order

import "fmt"

// stockEffect is what a status transition does to each line's stock item.
type stockEffect int

const (
	effectNone stockEffect = iota
	// effectReserve claims every line's quantity.
	effectReserve
	// effectDeduct realizes each still-applied reservation as a shipment.
	effectDeduct
	// effectRelease gives back each still-applied reservation.
	effectRelease
)

// IsReserving reports whether lines of an order in this status are
// reflected in stock item reservations.
func IsReserving(s OrderStatus) bool {
	switch s {
	case StatusConfirmed, StatusProcessing, StatusShipped:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// transitionEffect returns the stock effect of moving from one status to
// the other. Any pair not in the table is rejected before any stock
// operation runs: no skipping forward, nothing out of a terminal status.
//
// A deduct on entering SHIPPED clears each line's reservation flag, so
// the effectDeduct of SHIPPED -> COMPLETED and the effectRelease of
// SHIPPED -> CANCELLED only touch lines added while the order sat in
// SHIPPED; for a normally shipped order both are no-ops.
func transitionEffect(from, to OrderStatus) (stockEffect, error) {
	switch from {
	case StatusDraft:
		switch to {
		case StatusConfirmed:
			return effectReserve, nil
		case StatusCancelled:
			// Nothing was ever reserved.
			return effectNone, nil
		}

	case StatusConfirmed:
		switch to {
		case StatusProcessing:
			return effectNone, nil
		case StatusShipped, StatusCompleted:
			return effectDeduct, nil
		case StatusCancelled:
			return effectRelease, nil
		}

	case StatusProcessing:
		switch to {
		case StatusShipped, StatusCompleted:
			return effectDeduct, nil
		case StatusCancelled:
			return effectRelease, nil
		}

	case StatusShipped:
		switch to {
		case StatusCompleted:
			return effectDeduct, nil
		case StatusCancelled:
			return effectRelease, nil
		}
	}

	return effectNone, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
