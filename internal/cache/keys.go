package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// AvailabilityKey is the key holding a stock item's availability snapshot.
func AvailabilityKey(stockItemID uuid.UUID) string {
	return fmt.Sprintf("pabrikku:stock:available:%s", stockItemID)
}
