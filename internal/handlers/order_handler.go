package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/stepuplabz/market/internal/domain/order"
	"github.com/stepuplabz/market/internal/httperr"
	"github.com/stepuplabz/market/internal/middleware"
	"github.com/stepuplabz/market/internal/models"
	ucOrder "github.com/stepuplabz/market/internal/usecase/order"
)

// ======================================================
// HANDLER
// ======================================================

type OrderHandler struct {
	repo     domain.Repository
	createUC *ucOrder.CreateOrder
	statusUC *ucOrder.UpdateOrderStatus
	cancelUC *ucOrder.CancelOrder
	statsUC  *ucOrder.OrderStats
}

func NewOrderHandler(
	repo domain.Repository,
	createUC *ucOrder.CreateOrder,
	statusUC *ucOrder.UpdateOrderStatus,
	cancelUC *ucOrder.CancelOrder,
	statsUC *ucOrder.OrderStats,
) *OrderHandler {
	return &OrderHandler{
		repo:     repo,
		createUC: createUC,
		statusUC: statusUC,
		cancelUC: cancelUC,
		statsUC:  statsUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateOrderRequest struct {
	Items          []models.OrderItem `json:"items" binding:"required"`
	TotalPrice     float64            `json:"totalPrice" binding:"required"`
	Address        string             `json:"address" binding:"required"`
	IdempotencyKey string             `json:"idempotencyKey"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *OrderHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	key := req.IdempotencyKey
	if key == "" {
		key = c.GetHeader("Idempotency-Key")
	}

	order, created, err := h.createUC.Execute(c.Request.Context(), ucOrder.CreateOrderInput{
		UserID:         userID,
		Items:          req.Items,
		Total:          req.TotalPrice,
		Address:        req.Address,
		IdempotencyKey: key,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, order)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ======================================================
// LISTINGS
// ======================================================

func (h *OrderHandler) ListByUser(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(string)
	callerRole, _ := c.Get(middleware.ContextUserRole)

	userID := c.Param("userId")
	if userID != callerID && callerRole != models.RoleAdmin {
		httperr.Forbidden(c, "access_denied", "You can only list your own orders.")
		return
	}

	orders, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_orders", "Could not list orders.")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_orders", "Could not list orders.")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(string)

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	order, err := h.statusUC.Execute(c.Request.Context(), adminID, c.Param("id"), req.Status)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(string)
	callerRole, _ := c.Get(middleware.ContextUserRole)
	role, _ := callerRole.(string)

	order, err := h.cancelUC.Execute(c.Request.Context(), callerID, role, c.Param("id"))
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ======================================================
// STATS
// ======================================================

func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.statsUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_compute_stats", "Could not compute order stats.")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ======================================================
// ERROR MAPPING
// ======================================================

func writeOrderError(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "internal_error", "Order operation failed.")
		return
	}

	switch code {
	case "order_not_found":
		httperr.NotFound(c, code, "Order not found.")
	case "not_order_owner":
		httperr.Forbidden(c, code, "You do not own this order.")
	case "invalid_transition":
		httperr.Conflict(c, code, "Order status cannot change this way.")
	default:
		httperr.BadRequest(c, code, "Invalid order request.")
	}
}
