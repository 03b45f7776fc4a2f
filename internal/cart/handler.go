package cart

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/cart", middleware.Auth())
	{
		carts.GET("", h.getCart)
		carts.POST("/items", h.addItem)
		carts.PATCH("/items/:productId", h.updateQuantity)
		carts.DELETE("/items/:productId", h.removeItem)
		carts.DELETE("", h.clear)
	}
}

type addItemRequest struct {
	ProductID     int     `json:"productId" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,min=1"`
	SelectedSize  *string `json:"selectedSize"`
	SelectedColor *string `json:"selectedColor"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	items, err := h.svc.GetCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": ToItemResponses(items)})
}

func (h *Handler) addItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	item, err := h.svc.AddItem(c.Request.Context(), AddItemParams{
		UserID:        userID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		SelectedSize:  req.SelectedSize,
		SelectedColor: req.SelectedColor,
	})
	switch {
	case errors.Is(err, ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add to cart"})
		return
	}

	c.JSON(http.StatusCreated, ToItemResponse(item))
}

func (h *Handler) updateQuantity(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	item, err := h.svc.UpdateQuantity(c.Request.Context(), UpdateQuantityParams{
		UserID:    userID,
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	switch {
	case errors.Is(err, ErrCartItemNotFound), errors.Is(err, ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	if item == nil {
		c.JSON(http.StatusOK, gin.H{"message": "item removed"})
		return
	}

	c.JSON(http.StatusOK, ToItemResponse(item))
}

func (h *Handler) removeItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	err = h.svc.RemoveItem(c.Request.Context(), userID, productID)
	if errors.Is(err, ErrCartItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

func (h *Handler) clear(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.svc.ClearAll(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
