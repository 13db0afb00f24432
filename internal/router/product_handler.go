package router

import (
	"net/http"

	"pabrikku-be/internal/product"

	"github.com/gin-gonic/gin"
)

type productHandler struct {
	svc product.Service
}

func (h *productHandler) create(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var input product.NewProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *productHandler) list(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	filter := &product.ProductFilterInput{
		IncludeArchived: c.Query("include_archived") == "true",
	}
	if s := c.Query("status"); s != "" {
		status := product.Status(s)
		filter.Status = &status
	}
	if s := c.Query("search"); s != "" {
		filter.Search = &s
	}

	var sort *product.ProductSortInput
	if field := c.Query("sort_field"); field != "" {
		sort = &product.ProductSortInput{
			Field:     product.ProductSortField(field),
			Direction: product.SortDirection(c.Query("sort_dir")),
		}
	}

	products, err := h.svc.GetList(c.Request.Context(), tenantID, filter, sort,
		parseInt32Query(c, "limit"), parseInt32Query(c, "page"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": products})
}

func (h *productHandler) detail(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *productHandler) update(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input product.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *productHandler) archive(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Archive(c.Request.Context(), tenantID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *productHandler) unarchive(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Unarchive(c.Request.Context(), tenantID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
