package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
	"github.com/tldev36/ECommerce-sub001/internal/services"
)

const userOrdersCacheTTL = 30 * time.Second

type Handler struct {
	orders    *services.OrderService
	lifecycle *services.LifecycleService
	rdb       *redis.Client
}

func NewHandler(orders *services.OrderService, lifecycle *services.LifecycleService, rdb *redis.Client) *Handler {
	return &Handler{orders: orders, lifecycle: lifecycle, rdb: rdb}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/orders", h.Checkout)
	r.GET("/orders/:id", h.GetOrder)
	r.GET("/orders/code/:code", h.GetOrderByCode)
	r.POST("/orders/:id/cancel", h.CancelOrder)
	r.GET("/users/:userId/orders", h.GetUserOrders)
	r.PATCH("/admin/orders/:id/status", h.UpdateStatus)
	r.POST("/payments/callback", h.PaymentCallback)
	r.GET("/statuses", h.GetStatuses)
}

func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	in := services.CheckoutInput{
		UserID:          req.UserID,
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
		ShippingFee:     req.ShippingFee,
		ShippingName:    req.ShippingName,
		ShippingPhone:   req.ShippingPhone,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, services.CheckoutItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.orders.Checkout(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid order id"})
		return
	}

	order, err := h.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *Handler) GetOrderByCode(c *gin.Context) {
	order, err := h.orders.GetOrderByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *Handler) GetUserOrders(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid user id"})
		return
	}

	ctx := c.Request.Context()
	cacheKey := services.UserOrdersCacheKey(userID)
	if h.rdb != nil {
		if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var orders []domain.Order
			if json.Unmarshal([]byte(b), &orders) == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
				return
			}
		}
	}

	orders, err := h.orders.GetOrdersByUser(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if h.rdb != nil {
		if data, err := json.Marshal(orders); err == nil {
			h.rdb.Set(context.Background(), cacheKey, data, userOrdersCacheTTL)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// CancelOrder is the customer-facing cancellation. The requester comes from
// the X-User-ID header set by the auth proxy.
func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid order id"})
		return
	}
	userID, err := strconv.ParseUint(c.GetHeader("X-User-ID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "missing requester identity"})
		return
	}

	actor := services.Actor{Role: domain.RoleCustomer, UserID: userID}
	order, err := h.lifecycle.Transition(c.Request.Context(), id, domain.StatusCancelled, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid order id"})
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	order, err := h.lifecycle.Transition(c.Request.Context(), id, target, services.Actor{Role: domain.RoleAdmin})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// PaymentCallback translates a provider result into a system transition:
// success confirms a waiting_payment order, failure cancels it.
func (h *Handler) PaymentCallback(c *gin.Context) {
	var req PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	order, err := h.orders.GetOrderByCode(c.Request.Context(), req.OrderCode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	target := domain.StatusPending
	if req.Status == "failed" {
		target = domain.StatusCancelled
	}
	updated, err := h.lifecycle.Transition(c.Request.Context(), order.ID, target, services.Actor{Role: domain.RoleSystem})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": updated})
}

func (h *Handler) GetStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "statuses": domain.Labels()})
}

// respondError maps the domain taxonomy to transport codes. Anything
// outside the taxonomy is reported as a generic server error so storage
// detail never leaks.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrCouponInvalid),
		errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, domain.ErrStorageConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}
