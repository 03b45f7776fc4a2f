package order

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
	orders := rg.Group("/orders", middleware.Auth())
	{
		orders.POST("", h.create)
		orders.GET("", h.list)
		orders.GET("/my", h.listMine)
		orders.GET("/stats", h.stats)
		orders.GET("/number/:orderNumber", h.getByOrderNumber)
		orders.GET("/:id", h.getByID)
		orders.PATCH("/:id/status", h.updateStatus)
		orders.PATCH("/:id/payment-status", h.updatePaymentStatus)
		orders.POST("/:id/cancel", h.cancel)
	}
}

type createItemRequest struct {
	ProductID     int     `json:"productId" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,min=1"`
	SelectedSize  *string `json:"selectedSize"`
	SelectedColor *string `json:"selectedColor"`
}

type createRequest struct {
	Items           []createItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress *string             `json:"shippingAddress"`
	BillingAddress  *string             `json:"billingAddress"`
	PaymentMethod   *string             `json:"paymentMethod"`
	Notes           *string             `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type updatePaymentStatusRequest struct {
	PaymentStatus    string  `json:"paymentStatus" binding:"required"`
	PaymentReference *string `json:"paymentReference"`
}

func (h *Handler) create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	params := CreateParams{
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		params.Items = append(params.Items, CreateItemInput{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			SelectedSize:  item.SelectedSize,
			SelectedColor: item.SelectedColor,
		})
	}

	o, err := h.svc.Create(c.Request.Context(), userID, params)
	switch {
	case errors.Is(err, ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, ToResponse(o))
}

func (h *Handler) parseFilter(c *gin.Context) (Filter, bool) {
	var f Filter

	if v := c.Query("status"); v != "" {
		status, err := ParseStatus(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return f, false
		}
		f.Status = &status
	}
	if v := c.Query("paymentStatus"); v != "" {
		status, err := ParsePaymentStatus(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return f, false
		}
		f.PaymentStatus = &status
	}
	f.SortBy = c.Query("sortBy")
	f.SortOrder = c.Query("sortOrder")
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	return f, true
}

func (h *Handler) list(c *gin.Context) {
	f, ok := h.parseFilter(c)
	if !ok {
		return
	}

	orders, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": ToResponses(orders),
		"total": total,
	})
}

func (h *Handler) listMine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	f, ok := h.parseFilter(c)
	if !ok {
		return
	}

	orders, total, err := h.svc.ListForUser(c.Request.Context(), userID, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": ToResponses(orders),
		"total": total,
	})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, ToStatsResponse(stats))
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := h.svc.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get order"})
		return
	}

	c.JSON(http.StatusOK, ToResponse(o))
}

func (h *Handler) getByOrderNumber(c *gin.Context) {
	o, err := h.svc.GetByOrderNumber(c.Request.Context(), c.Param("orderNumber"))
	if errors.Is(err, ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get order"})
		return
	}

	c.JSON(http.StatusOK, ToResponse(o))
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.svc.UpdateStatus(c.Request.Context(), id, status)
	if errors.Is(err, ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}

	c.JSON(http.StatusOK, ToResponse(o))
}

func (h *Handler) updatePaymentStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req updatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	status, err := ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.svc.UpdatePaymentStatus(c.Request.Context(), id, status, req.PaymentReference)
	if errors.Is(err, ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
		return
	}

	c.JSON(http.StatusOK, ToResponse(o))
}

func (h *Handler) cancel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := h.svc.Cancel(c.Request.Context(), id)
	switch {
	case errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrOrderNotCancellable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel order"})
		return
	}

	c.JSON(http.StatusOK, ToResponse(o))
}
