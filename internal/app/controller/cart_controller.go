package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/service"
	apperrors "github.com/fooddash/fooddash-backend/internal/errors"
	"github.com/fooddash/fooddash-backend/internal/middleware"
	"github.com/fooddash/fooddash-backend/internal/validation"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	MenuItemID uint `json:"menu_item_id" validate:"required"`
}

// ChangeQuantityRequest adds Delta to the line; a result of zero or less
// removes it.
type ChangeQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func cartResponse(cart *model.Cart) gin.H {
	lines := cart.Lines
	if lines == nil {
		lines = []model.CartLine{}
	}
	return gin.H{
		"lines": lines,
		"count": cart.Count(),
		"total": cart.Total().StringFixed(2),
	}
}

// GetCart returns the customer's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	customerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), customerID)
	if err != nil {
		log.Error("Failed to load cart", err, map[string]interface{}{
			"customer_id": customerID,
		})
		apperrors.InternalError(c, "Failed to load cart")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// AddToCart adds one unit of a menu item
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	customerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}

	cart, err := ctrl.cartService.AddItem(c.Request.Context(), customerID, req.MenuItemID)
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			apperrors.NotFound(c, apperrors.MenuItemNotFound, "Menu item not found")
			return
		}
		log.Error("Failed to add to cart", err, map[string]interface{}{
			"customer_id":  customerID,
			"menu_item_id": req.MenuItemID,
		})
		apperrors.InternalError(c, "Failed to add to cart")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

func parseLineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart line index")
		return 0, false
	}
	return index, true
}

// UpdateCartItem changes the quantity of one line
// PATCH /api/v1/cart/items/:index
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	index, ok := parseLineIndex(c)
	if !ok {
		return
	}

	var req ChangeQuantityRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}

	cart, err := ctrl.cartService.ChangeQuantity(c.Request.Context(), customerID, index, req.Delta)
	if err != nil {
		ctrl.respondLineError(c, err, customerID, index)
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveCartItem deletes one line
// DELETE /api/v1/cart/items/:index
func (ctrl *CartController) RemoveCartItem(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	index, ok := parseLineIndex(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.DeleteLine(c.Request.Context(), customerID, index)
	if err != nil {
		ctrl.respondLineError(c, err, customerID, index)
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

func (ctrl *CartController) respondLineError(c *gin.Context, err error, customerID uint, index int) {
	if errors.Is(err, service.ErrCartLineNotFound) {
		apperrors.NotFound(c, apperrors.CartLineNotFound, "Cart line not found")
		return
	}
	middleware.GetLoggerFromContext(c).Error("Failed to update cart line", err, map[string]interface{}{
		"customer_id": customerID,
		"index":       index,
	})
	apperrors.InternalError(c, "Failed to update cart")
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(c.Request.Context(), customerID); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to clear cart", err, map[string]interface{}{
			"customer_id": customerID,
		})
		apperrors.InternalError(c, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
