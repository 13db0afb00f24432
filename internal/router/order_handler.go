package router

import (
	"net/http"

	"pabrikku-be/internal/order"
	"pabrikku-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type orderHandler struct {
	svc   order.Service
	coord *order.Coordinator
}

func tenantFrom(c *gin.Context) (uuid.UUID, bool) {
	tenantID, ok := utils.GetTenantIDFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing tenant"})
		return uuid.Nil, false
	}
	return tenantID, true
}

// guard resolves the order within the caller's tenant before any
// mutation; the coordinator itself is tenant-agnostic.
func (h *orderHandler) guard(c *gin.Context) (uuid.UUID, bool) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return uuid.Nil, false
	}

	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		return uuid.Nil, false
	}

	if _, err := h.svc.GetOrderDetail(c.Request.Context(), tenantID, orderID); err != nil {
		respondError(c, err)
		return uuid.Nil, false
	}
	return orderID, true
}

type newOrderRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Lines      []struct {
		StockItemID uuid.UUID `json:"stock_item_id" binding:"required"`
		Quantity    int64     `json:"quantity"`
		UnitPrice   int64     `json:"unit_price"`
	} `json:"lines"`
}

func (h *orderHandler) create(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req newOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]order.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, order.LineInput{
			StockItemID: l.StockItemID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	o, err := h.coord.CreateDraft(c.Request.Context(), tenantID, req.CustomerID, lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *orderHandler) list(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	filter := &order.OrderFilterInput{
		IncludeDeleted: c.Query("include_deleted") == "true",
	}

	if s := c.Query("status"); s != "" {
		status := order.OrderStatus(s)
		if !order.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		filter.Status = &status
	}

	if s := c.Query("customer_id"); s != "" {
		customerID, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
			return
		}
		filter.CustomerID = &customerID
	}

	var sort *order.OrderSortInput
	if field := c.Query("sort_field"); field != "" {
		sort = &order.OrderSortInput{
			Field:     order.OrderSortField(field),
			Direction: order.SortDirection(c.Query("sort_dir")),
		}
	}

	limit := parseInt32Query(c, "limit")
	page := parseInt32Query(c, "page")

	orders, err := h.svc.GetOrders(c.Request.Context(), tenantID, filter, sort, limit, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders})
}

func (h *orderHandler) detail(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.svc.GetOrderDetail(c.Request.Context(), tenantID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *orderHandler) setStatus(c *gin.Context) {
	orderID, ok := h.guard(c)
	if !ok {
		return
	}

	var req struct {
		Status order.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !order.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	if err := h.coord.SetStatus(c.Request.Context(), orderID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *orderHandler) addLine(c *gin.Context) {
	orderID, ok := h.guard(c)
	if !ok {
		return
	}

	var req struct {
		StockItemID uuid.UUID `json:"stock_item_id" binding:"required"`
		Quantity    int64     `json:"quantity"`
		UnitPrice   int64     `json:"unit_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	line, err := h.coord.AddLine(c.Request.Context(), orderID, order.LineInput{
		StockItemID: req.StockItemID,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *orderHandler) updateLine(c *gin.Context) {
	orderID, ok := h.guard(c)
	if !ok {
		return
	}
	lineID, ok := parseUUIDParam(c, "lineID")
	if !ok {
		return
	}

	var req struct {
		Quantity int64 `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.coord.UpdateLineQuantity(c.Request.Context(), orderID, lineID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *orderHandler) removeLine(c *gin.Context) {
	orderID, ok := h.guard(c)
	if !ok {
		return
	}
	lineID, ok := parseUUIDParam(c, "lineID")
	if !ok {
		return
	}

	if err := h.coord.RemoveLine(c.Request.Context(), orderID, lineID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *orderHandler) softDelete(c *gin.Context) {
	orderID, ok := h.guard(c)
	if !ok {
		return
	}

	if err := h.coord.SoftDelete(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *orderHandler) restore(c *gin.Context) {
	orderID, ok := h.guard(c)
	if !ok {
		return
	}

	if err := h.coord.Restore(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *orderHandler) purge(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	// Purge is idempotent: a missing order is already purged.
	if _, err := h.svc.GetOrderDetail(c.Request.Context(), tenantID, orderID); err == nil {
		if err := h.coord.Purge(c.Request.Context(), orderID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}
