package controller

import (
	"errors"
	"net/http"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/service"
	apperrors "github.com/fooddash/fooddash-backend/internal/errors"
	"github.com/fooddash/fooddash-backend/internal/middleware"
	"github.com/fooddash/fooddash-backend/internal/validation"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	accountService service.AccountService
}

func NewAdminController(accountService service.AccountService) *AdminController {
	return &AdminController{accountService: accountService}
}

type CreateStaffRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=50"`
	Address  string `json:"address"`
	Position string `json:"position" validate:"max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateStaffRequest changes only the fields present in the body. An
// empty password keeps the current one.
type UpdateStaffRequest struct {
	Name     string  `json:"name" validate:"max=255"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Address  *string `json:"address"`
	Position *string `json:"position" validate:"omitempty,max=50"`
	Password string  `json:"password" validate:"omitempty,min=6"`
}

type CreateCustomerRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=50"`
	Address  string `json:"address"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateCustomerRequest follows the same rules as UpdateStaffRequest
type UpdateCustomerRequest struct {
	FullName string  `json:"full_name" validate:"max=255"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Address  *string `json:"address"`
	Password string  `json:"password" validate:"omitempty,min=6"`
}

type customerSummary struct {
	ID         uint   `json:"id"`
	CustomerID string `json:"customer_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	CreatedAt  string `json:"created_at"`
}

func respondAccountError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrStaffNotFound):
		apperrors.NotFound(c, apperrors.AccountNotFound, "Staff member not found")
	case errors.Is(err, service.ErrCustomerNotFound):
		apperrors.NotFound(c, apperrors.AccountNotFound, "Customer not found")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email is already registered")
	case errors.Is(err, util.ErrPasswordTooShort):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
	default:
		middleware.GetLoggerFromContext(c).Error("Account operation failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.RespondWithParsedError(c, err, context)
	}
}

// ListStaff lists every staff member
// GET /api/v1/admin/staff
func (ctrl *AdminController) ListStaff(c *gin.Context) {
	staff, err := ctrl.accountService.ListStaff()
	if err != nil {
		respondAccountError(c, err, "list staff")
		return
	}
	if staff == nil {
		staff = []model.Staff{}
	}
	c.JSON(http.StatusOK, gin.H{
		"staff": staff,
		"count": len(staff),
	})
}

// CreateStaff adds a staff member; the EMP code is assigned on insert
// POST /api/v1/admin/staff
func (ctrl *AdminController) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}
	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	staff, err := ctrl.accountService.CreateStaff(service.StaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Position: req.Position,
		Password: req.Password,
	}, actor)
	if err != nil {
		respondAccountError(c, err, "create staff")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff member created",
		"staff":   staff,
	})
}

// UpdateStaff edits a staff member
// PUT /api/v1/admin/staff/:id
func (ctrl *AdminController) UpdateStaff(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStaffRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}
	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	staff, err := ctrl.accountService.UpdateStaff(id, service.StaffUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Position: req.Position,
		Password: req.Password,
	}, actor)
	if err != nil {
		respondAccountError(c, err, "update staff")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Staff member updated",
		"staff":   staff,
	})
}

// DeleteStaff removes a staff member
// DELETE /api/v1/admin/staff/:id
func (ctrl *AdminController) DeleteStaff(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	if err := ctrl.accountService.DeleteStaff(id, actor); err != nil {
		respondAccountError(c, err, "delete staff")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted"})
}

func summarizeCustomer(customer *model.Customer) customerSummary {
	return customerSummary{
		ID:         customer.ID,
		CustomerID: customer.DisplayCode(),
		FullName:   customer.FullName,
		Email:      customer.Email,
		Phone:      customer.Phone,
		Address:    customer.Address,
		CreatedAt:  customer.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ListCustomers lists registered customers with their CUST codes
// GET /api/v1/admin/customers
func (ctrl *AdminController) ListCustomers(c *gin.Context) {
	customers, err := ctrl.accountService.ListCustomers()
	if err != nil {
		respondAccountError(c, err, "list customers")
		return
	}

	out := make([]customerSummary, 0, len(customers))
	for i := range customers {
		out = append(out, summarizeCustomer(&customers[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": out,
		"count":     len(out),
	})
}

// CreateCustomer registers a customer on their behalf
// POST /api/v1/admin/customers
func (ctrl *AdminController) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}
	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	customer, err := ctrl.accountService.CreateCustomer(service.CustomerInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	}, actor)
	if err != nil {
		respondAccountError(c, err, "create customer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Customer created",
		"customer": summarizeCustomer(customer),
	})
}

// UpdateCustomer edits a customer, optionally resetting the password
// PUT /api/v1/admin/customers/:id
func (ctrl *AdminController) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}
	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	customer, err := ctrl.accountService.UpdateCustomer(id, service.CustomerUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	}, actor)
	if err != nil {
		respondAccountError(c, err, "update customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Customer updated",
		"customer": summarizeCustomer(customer),
	})
}

// DeleteCustomer removes a customer account
// DELETE /api/v1/admin/customers/:id
func (ctrl *AdminController) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	if err := ctrl.accountService.DeleteCustomer(id, actor); err != nil {
		respondAccountError(c, err, "delete customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
