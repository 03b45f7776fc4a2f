package payment

import (
	"errors"
	"net/http"
	"strconv"

	"shopline-be/internal/logger"
	"shopline-be/internal/middleware"
	"shopline-be/internal/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	gateway  Gateway
	orderSvc order.Service
}

func NewHandler(gateway Gateway, orderSvc order.Service) *Handler {
	return &Handler{gateway: gateway, orderSvc: orderSvc}
}

// RegisterRoutes mounts the checkout-payment route inside the API
// group and the provider callback outside of it (the provider does not
// carry a user token).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, root *gin.Engine) {
	rg.POST("/orders/:id/pay", middleware.Auth(), h.pay)
	root.POST("/webhook/payment", h.webhook)
}

func (h *Handler) pay(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	o, err := h.orderSvc.GetByID(c.Request.Context(), id)
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	if o.UserID != userID && middleware.GetUserRole(c) != middleware.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": order.ErrOrderNotFound.Error()})
		return
	}

	if o.PaymentStatus == order.PaymentPaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order is already paid"})
		return
	}

	inv, err := h.gateway.CreateInvoice(c.Request.Context(), InvoiceRequest{
		ExternalID:  o.OrderNumber,
		AmountCents: o.TotalCents,
		PayerEmail:  middleware.GetUserEmail(c),
		Description: "Order " + o.OrderNumber,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway request failed"})
		return
	}

	if _, err := h.orderSvc.UpdatePaymentStatus(c.Request.Context(), o.ID, order.PaymentPending, &inv.ProviderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment reference"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderNumber": o.OrderNumber,
		"invoiceUrl":  inv.InvoiceURL,
		"expiresAt":   inv.ExpirationTime,
		"status":      inv.Status,
	})
}

type callbackRequest struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

func (h *Handler) webhook(c *gin.Context) {
	log := logger.FromCtx(c.Request.Context()).With(
		zap.String("layer", "handler"),
		zap.String("method", "PaymentWebhook"),
	)

	if err := h.gateway.VerifyCallback(c.Request); err != nil {
		log.Warn("callback verification failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid callback token"})
		return
	}

	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, ok := mapProviderStatus(req.Status)
	if !ok {
		log.Warn("ignoring unknown provider status", zap.String("status", req.Status))
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	o, err := h.orderSvc.GetByOrderNumber(c.Request.Context(), req.ExternalID)
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	var reference *string
	if req.ID != "" {
		reference = &req.ID
	}

	if _, err := h.orderSvc.UpdatePaymentStatus(c.Request.Context(), o.ID, status, reference); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
		return
	}

	log.Info("payment callback processed",
		zap.String("order_number", req.ExternalID),
		zap.String("payment_status", string(status)),
	)

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// mapProviderStatus translates the provider vocabulary into ours.
func mapProviderStatus(s string) (order.PaymentStatus, bool) {
	switch s {
	case "PAID", "SETTLED":
		return order.PaymentPaid, true
	case "EXPIRED", "FAILED":
		return order.PaymentFailed, true
	case "REFUNDED":
		return order.PaymentRefunded, true
	case "PENDING":
		return order.PaymentPending, true
	default:
		return "", false
	}
}
