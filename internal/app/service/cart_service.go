package service

import (
	"context"
	"errors"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
)

type CartService interface {
	GetCart(ctx context.Context, customerID uint) (*model.Cart, error)
	AddItem(ctx context.Context, customerID, menuItemID uint) (*model.Cart, error)
	ChangeQuantity(ctx context.Context, customerID uint, index, delta int) (*model.Cart, error)
	DeleteLine(ctx context.Context, customerID uint, index int) (*model.Cart, error)
	ClearCart(ctx context.Context, customerID uint) error
	RemoveCheckedOut(ctx context.Context, customerID uint, checkedOut *model.Cart) error
}

type cartService struct {
	cartRepo       repository.CartRepository
	menuRepo       repository.MenuRepository
	currencySymbol string
}

func NewCartService(cartRepo repository.CartRepository, menuRepo repository.MenuRepository, currencySymbol string) CartService {
	return &cartService{
		cartRepo:       cartRepo,
		menuRepo:       menuRepo,
		currencySymbol: currencySymbol,
	}
}

func (s *cartService) GetCart(ctx context.Context, customerID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, customerID)
	if err != nil {
		logger.Error("Failed to load cart", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return cart, nil
}

// AddItem snapshots the menu item's title, price and image into the cart
func (s *cartService) AddItem(ctx context.Context, customerID, menuItemID uint) (*model.Cart, error) {
	logger.Debug("Adding item to cart", map[string]interface{}{
		"customer_id":  customerID,
		"menu_item_id": menuItemID,
	})

	item, err := s.menuRepo.FindByID(menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Menu item not found for cart", map[string]interface{}{
				"menu_item_id": menuItemID,
			})
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cart.AddItem(model.CartLine{
		MenuItemID: item.ID,
		Title:      item.Name,
		UnitPrice:  util.FormatPrice(s.currencySymbol, item.Price),
		ImageURL:   item.ImageURL,
	})

	if err := s.cartRepo.Save(ctx, customerID, cart); err != nil {
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"customer_id":  customerID,
		"menu_item_id": menuItemID,
		"lines":        len(cart.Lines),
	})
	return cart, nil
}

func (s *cartService) ChangeQuantity(ctx context.Context, customerID uint, index, delta int) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !cart.ChangeQuantity(index, delta) {
		logger.Warn("Cart line out of range", map[string]interface{}{
			"customer_id": customerID,
			"index":       index,
			"lines":       len(cart.Lines),
		})
		return nil, ErrCartLineNotFound
	}
	if err := s.cartRepo.Save(ctx, customerID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) DeleteLine(ctx context.Context, customerID uint, index int) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !cart.DeleteLine(index) {
		return nil, ErrCartLineNotFound
	}
	if err := s.cartRepo.Save(ctx, customerID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, customerID uint) error {
	if err := s.cartRepo.Delete(ctx, customerID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return err
	}
	logger.Info("Cart cleared", map[string]interface{}{
		"customer_id": customerID,
	})
	return nil
}

// RemoveCheckedOut takes the checked-out quantities off the stored cart.
// Lines added after the checkout snapshot was read stay in the cart.
func (s *cartService) RemoveCheckedOut(ctx context.Context, customerID uint, checkedOut *model.Cart) error {
	remaining, err := s.cartRepo.Update(ctx, customerID, func(cart *model.Cart) {
		cart.Subtract(checkedOut)
	})
	if err != nil {
		logger.Error("Failed to remove checked out lines", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return err
	}
	logger.Info("Checked out lines removed from cart", map[string]interface{}{
		"customer_id": customerID,
		"remaining":   len(remaining.Lines),
	})
	return nil
}
