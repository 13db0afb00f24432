package router

import (
	"net/http"

	"pabrikku-be/internal/stock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stockHandler struct {
	svc stock.Service
}

type receiveBatchRequest struct {
	StockItemID *uuid.UUID `json:"stock_item_id"`
	ProductID   uuid.UUID  `json:"product_id"`
	Name        string     `json:"name"`
	Quantity    int64      `json:"quantity"`
	Minimum     int64      `json:"minimum"`
}

func (h *stockHandler) receiveBatch(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req receiveBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.svc.ReceiveBatch(c.Request.Context(), req.StockItemID, stock.ReceiveBatchInput{
		TenantID:  tenantID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Quantity:  req.Quantity,
		Minimum:   req.Minimum,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *stockHandler) list(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	items, err := h.svc.List(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *stockHandler) listLowStock(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	items, err := h.svc.ListLowStock(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *stockHandler) availability(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	available, err := h.svc.GetAvailability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock_item_id": id, "available": available})
}

func (h *stockHandler) markStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status stock.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.MarkStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *stockHandler) delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
