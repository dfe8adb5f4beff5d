package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fooddash/fooddash-backend/internal/app/service"
	apperrors "github.com/fooddash/fooddash-backend/internal/errors"
	"github.com/fooddash/fooddash-backend/internal/middleware"
	"github.com/fooddash/fooddash-backend/internal/storage"
	"github.com/fooddash/fooddash-backend/internal/validation"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const menuImageFolder = "menu"

// ImageUploader hands out presigned upload URLs for menu images
type ImageUploader interface {
	PresignImageUpload(ctx context.Context, filename, contentType, folder string) (*storage.PresignedUpload, error)
}

type MenuController struct {
	menuService    service.MenuService
	accountService service.AccountService
	uploader       ImageUploader
}

// NewMenuController builds the menu endpoints. uploader may be nil when S3
// is not configured.
func NewMenuController(menuService service.MenuService, accountService service.AccountService, uploader ImageUploader) *MenuController {
	return &MenuController{
		menuService:    menuService,
		accountService: accountService,
		uploader:       uploader,
	}
}

// PriceInput accepts 159, 159.5 or a currency string such as "₱159.00"
type PriceInput struct {
	decimal.Decimal
}

func (p *PriceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		p.Decimal = util.ParsePrice(raw)
		return nil
	}
	return p.Decimal.UnmarshalJSON(data)
}

type MenuItemRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description string     `json:"description"`
	Category    string     `json:"category" validate:"max=50"`
	Price       PriceInput `json:"price"`
	ImageURL    string     `json:"image_url" validate:"omitempty,url"`
}

func (r MenuItemRequest) input() service.MenuItemInput {
	return service.MenuItemInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price.Decimal,
		ImageURL:    r.ImageURL,
	}
}

type ImageUploadRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
}

func respondMenuError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrMenuItemNotFound):
		apperrors.NotFound(c, apperrors.MenuItemNotFound, "Menu item not found")
	case errors.Is(err, service.ErrMenuNameRequired):
		apperrors.RespondWithValidationError(c, map[string]string{"name": "is required"})
	case errors.Is(err, service.ErrInvalidPrice):
		apperrors.RespondWithValidationError(c, map[string]string{"price": "must be greater than 0"})
	default:
		middleware.GetLoggerFromContext(c).Error("Menu operation failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.RespondWithParsedError(c, err, context)
	}
}

// ListMenu lists menu items
// GET /api/v1/menu?category=&search=
func (ctrl *MenuController) ListMenu(c *gin.Context) {
	items, err := ctrl.menuService.List(c.Query("category"), c.Query("search"))
	if err != nil {
		respondMenuError(c, err, "list menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetMenuItem returns one menu item
// GET /api/v1/menu/:id
func (ctrl *MenuController) GetMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ctrl.menuService.Get(id)
	if err != nil {
		respondMenuError(c, err, "get menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateMenuItem adds a menu item
// POST /api/v1/menu
func (ctrl *MenuController) CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}
	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	item, err := ctrl.menuService.Create(req.input(), actor)
	if err != nil {
		respondMenuError(c, err, "create menu item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Menu item created",
		"item":    item,
	})
}

// UpdateMenuItem replaces the editable fields of a menu item
// PUT /api/v1/menu/:id
func (ctrl *MenuController) UpdateMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req MenuItemRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}
	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	item, err := ctrl.menuService.Update(id, req.input(), actor)
	if err != nil {
		respondMenuError(c, err, "update menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item updated",
		"item":    item,
	})
}

// DeleteMenuItem removes a menu item
// DELETE /api/v1/menu/:id
func (ctrl *MenuController) DeleteMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	if err := ctrl.menuService.Delete(id, actor); err != nil {
		respondMenuError(c, err, "delete menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// CreateImageUploadURL returns a presigned PUT URL for a menu image
// POST /api/v1/menu/upload-url
func (ctrl *MenuController) CreateImageUploadURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.uploader == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadNotConfigured, "Image upload is not configured")
		return
	}

	var req ImageUploadRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}

	upload, err := ctrl.uploader.PresignImageUpload(c.Request.Context(), req.Filename, req.ContentType, menuImageFolder)
	if err != nil {
		if errors.Is(err, storage.ErrContentTypeNotAllowed) {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG and WEBP images are allowed")
			return
		}
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "Failed to generate upload URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": upload.Key,
	})

	c.JSON(http.StatusOK, upload)
}
