package wishlist

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
	wishlists := rg.Group("/wishlist", middleware.Auth())
	{
		wishlists.GET("", h.list)
		wishlists.POST("/:productId", h.add)
		wishlists.DELETE("/:productId", h.remove)
	}
}

func (h *Handler) list(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	items, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) add(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	item, err := h.svc.Add(c.Request.Context(), userID, productID)
	switch {
	case errors.Is(err, ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrItemExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add to wishlist"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) remove(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	err = h.svc.Remove(c.Request.Context(), userID, productID)
	if errors.Is(err, ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove from wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}
