package product

import (
	"errors"
	"net/http"
	"strconv"

	"shopline-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts catalog routes. Reads are public, writes are
// admin only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.list)
		products.GET("/:id", h.getByID)

		admin := products.Group("", middleware.Auth(), middleware.RequireAdmin())
		{
			admin.POST("", h.create)
			admin.PATCH("/:id", h.update)
			admin.DELETE("/:id", h.deactivate)
		}
	}
}

type createRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	CategoryID  *int    `json:"categoryId"`
	ImageURL    *string `json:"imageUrl"`
}

type updateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	CategoryID  *int     `json:"categoryId"`
	Active      *bool    `json:"active"`
	ImageURL    *string  `json:"imageUrl"`
}

func (h *Handler) list(c *gin.Context) {
	var opts ListOptions

	if v := c.Query("categoryId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
			return
		}
		opts.CategoryID = &id
	}
	if v := c.Query("search"); v != "" {
		opts.Search = &v
	}
	if v := c.Query("inStock"); v != "" {
		inStock := v == "true"
		opts.InStock = &inStock
	}
	if v := c.Query("minPrice"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minPrice"})
			return
		}
		cents := AmountToCents(amount)
		opts.MinPrice = &cents
	}
	if v := c.Query("maxPrice"); v != "" {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxPrice"})
			return
		}
		cents := AmountToCents(amount)
		opts.MaxPrice = &cents
	}
	opts.SortBy = c.Query("sortBy")
	opts.SortOrder = c.Query("sortOrder")
	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	products, total, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": ToResponses(products),
		"total": total,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}

	c.JSON(http.StatusOK, ToResponse(p))
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), CreateParams{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  AmountToCents(req.Price),
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	})
	if errors.Is(err, ErrInvalidPrice) || errors.Is(err, ErrInvalidStock) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, ToResponse(p))
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	params := UpdateParams{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		Active:      req.Active,
		ImageURL:    req.ImageURL,
	}
	if req.Price != nil {
		cents := AmountToCents(*req.Price)
		params.PriceCents = &cents
	}

	p, err := h.svc.Update(c.Request.Context(), params)
	switch {
	case errors.Is(err, ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrInvalidStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	c.JSON(http.StatusOK, ToResponse(p))
}

func (h *Handler) deactivate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	err = h.svc.Deactivate(c.Request.Context(), id)
	if errors.Is(err, ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deactivated"})
}
