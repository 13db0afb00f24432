package router

import (
	"errors"
	"net/http"
	"strconv"

	"pabrikku-be/internal/customer"
	"pabrikku-be/internal/logger"
	"pabrikku-be/internal/order"
	"pabrikku-be/internal/product"
	"pabrikku-be/internal/stock"
	"pabrikku-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statusFor maps domain errors onto HTTP status codes. Anything unmapped
// is a 500 and gets logged with its cause.
func statusFor(err error) int {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrLineNotFound),
		errors.Is(err, stock.ErrStockItemNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, customer.ErrCustomerNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, stock.ErrInsufficientStock),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrOrderNotEditable),
		errors.Is(err, order.ErrOrderDeleted),
		errors.Is(err, order.ErrLineAlreadyFulfilled),
		errors.Is(err, stock.ErrStockItemReserved),
		errors.Is(err, product.ErrDuplicateSKU),
		errors.Is(err, user.ErrEmailExists):
		return http.StatusConflict

	case errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrNoLines),
		errors.Is(err, stock.ErrInvalidQuantity),
		errors.Is(err, product.ErrEmptyName),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrNoUpdateFields),
		errors.Is(err, customer.ErrEmptyName),
		errors.Is(err, customer.ErrNoUpdateFields),
		errors.Is(err, user.ErrWeakPassword),
		errors.Is(err, user.ErrInvalidRole):
		return http.StatusBadRequest

	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseInt32Query(c *gin.Context, name string) *int32 {
	s := c.Query(name)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil
	}
	v := int32(n)
	return &v
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
