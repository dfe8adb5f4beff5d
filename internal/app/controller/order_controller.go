package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/internal/app/service"
	apperrors "github.com/fooddash/fooddash-backend/internal/errors"
	"github.com/fooddash/fooddash-backend/internal/middleware"
	"github.com/fooddash/fooddash-backend/internal/validation"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService   service.OrderService
	cartService    service.CartService
	accountService service.AccountService
}

func NewOrderController(orderService service.OrderService, cartService service.CartService, accountService service.AccountService) *OrderController {
	return &OrderController{
		orderService:   orderService,
		cartService:    cartService,
		accountService: accountService,
	}
}

type CheckoutRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

// ListOrdersQuery filters the staff order list. date (today or YYYY-MM-DD)
// wins over the inclusive from/to range.
type ListOrdersQuery struct {
	Status string `form:"status" json:"status" validate:"omitempty,order_status"`
	Search string `form:"search" json:"search"`
	By     string `form:"by" json:"by" validate:"search_by"`
	Date   string `form:"date" json:"date" validate:"omitempty,eq=today|datetime=2006-01-02"`
	From   string `form:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
}

// window turns the date parameters into a created_at range in the server's
// time zone. Formats are already validated.
func (q ListOrdersQuery) window(now time.Time) (from, to time.Time) {
	day := func(s string) time.Time {
		t, _ := time.ParseInLocation(activityDateLayout, s, now.Location())
		return t
	}

	switch {
	case q.Date == "today":
		y, m, d := now.Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		return from, from.AddDate(0, 0, 1)
	case q.Date != "":
		from = day(q.Date)
		return from, from.AddDate(0, 0, 1)
	}

	if q.From != "" {
		from = day(q.From)
	}
	if q.To != "" {
		to = day(q.To).AddDate(0, 0, 1)
	}
	return from, to
}

// respondOrderError maps order lifecycle errors to HTTP responses
func respondOrderError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
	case errors.Is(err, service.ErrEmptyCart):
		apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
	case errors.Is(err, service.ErrMenuItemNotFound):
		apperrors.NotFound(c, apperrors.MenuItemNotFound, "A cart item is no longer on the menu")
	case errors.Is(err, service.ErrCustomerNotFound):
		apperrors.NotFound(c, apperrors.AccountNotFound, "Customer not found")
	case errors.Is(err, service.ErrInvalidStatus):
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
	case errors.Is(err, service.ErrInvalidTransition):
		apperrors.Conflict(c, apperrors.OrderInvalidTransition, "Order cannot move to that status")
	case errors.Is(err, service.ErrStatusConflict):
		apperrors.Conflict(c, apperrors.OrderStatusConflict, "Order was updated by someone else, reload and retry")
	default:
		middleware.GetLoggerFromContext(c).Error("Order operation failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.RespondWithParsedError(c, err, context)
	}
}

// Checkout places an order from the customer's cart, then removes the
// ordered lines from the cart once the order is stored.
// POST /api/v1/orders
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	customerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := validation.BindAndValidate(c, &req, validate); err != nil {
			return
		}
	}

	ctx := c.Request.Context()
	cart, err := ctrl.cartService.GetCart(ctx, customerID)
	if err != nil {
		log.Error("Failed to load cart for checkout", err, map[string]interface{}{
			"customer_id": customerID,
		})
		apperrors.InternalError(c, "Failed to load cart")
		return
	}

	order, err := ctrl.orderService.PlaceOrder(ctx, customerID, cart, strings.TrimSpace(req.Notes))
	if err != nil {
		respondOrderError(c, err, "create order")
		return
	}

	if err := ctrl.cartService.RemoveCheckedOut(ctx, customerID, cart); err != nil {
		log.Warn("Order placed but cart was not updated", map[string]interface{}{
			"order_number": order.OrderNumber,
			"error":        err.Error(),
		})
	}

	log.Info("Order placed", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.TotalAmount.StringFixed(2),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders lists the customer's orders, newest first
// GET /api/v1/orders/mine
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetCustomerOrders(customerID)
	if err != nil {
		respondOrderError(c, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetMyOrder returns one of the customer's own orders
// GET /api/v1/orders/mine/:id
func (ctrl *OrderController) GetMyOrder(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetCustomerOrder(customerID, orderID)
	if err != nil {
		respondOrderError(c, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ListOrders lists every order with optional status, search and date filters
// GET /api/v1/orders?status=&search=&by=&date=&from=&to=
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	var query ListOrdersQuery
	if err := validation.BindQueryAndValidate(c, &query, validate); err != nil {
		return
	}

	filter := repository.OrderFilter{
		Search: strings.TrimSpace(query.Search),
		By:     repository.OrderSearchField(strings.ToLower(query.By)),
	}
	filter.From, filter.To = query.window(time.Now())
	if status, ok := model.ParseOrderStatus(query.Status); ok {
		filter.Status = status
	}

	orders, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		respondOrderError(c, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns any order
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(orderID)
	if err != nil {
		respondOrderError(c, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus advances or cancels an order
// PATCH /api/v1/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}

	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	order, err := ctrl.orderService.UpdateStatus(orderID, req.Status, actor)
	if err != nil {
		log.Warn("Order status update rejected", map[string]interface{}{
			"order_id": orderID,
			"status":   req.Status,
			"error":    err.Error(),
		})
		respondOrderError(c, err, "update order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}

// DeleteOrder removes an order and its items
// DELETE /api/v1/orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrder(orderID, actor); err != nil {
		respondOrderError(c, err, "delete order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
