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

type AuthController struct {
	authService    service.AuthService
	accountService service.AccountService
}

func NewAuthController(authService service.AuthService, accountService service.AccountService) *AuthController {
	return &AuthController{
		authService:    authService,
		accountService: accountService,
	}
}

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"max=50"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StaffLoginRequest takes the EMP/ADM code or the email address
type StaffLoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest changes only the fields present in the body
type UpdateProfileRequest struct {
	FullName        string  `json:"full_name" validate:"max=255"`
	Email           string  `json:"email" validate:"omitempty,email"`
	Phone           *string `json:"phone" validate:"omitempty,max=50"`
	Address         *string `json:"address"`
	CurrentPassword string  `json:"current_password" validate:"required_with=NewPassword"`
	NewPassword     string  `json:"new_password" validate:"omitempty,min=6"`
}

func customerResponse(customer *model.Customer) gin.H {
	return gin.H{
		"id":          customer.ID,
		"customer_id": customer.DisplayCode(),
		"full_name":   customer.FullName,
		"email":       customer.Email,
		"phone":       customer.Phone,
		"address":     customer.Address,
		"role":        model.RoleCustomer,
	}
}

// Register creates a customer account
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	customer, tokens, err := ctrl.authService.RegisterCustomer(service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email is already registered")
		case errors.Is(err, util.ErrPasswordTooShort):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		default:
			log.Error("Registration failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithParsedError(c, err, "register customer")
		}
		return
	}

	log.Info("Customer registered successfully", map[string]interface{}{
		"customer_id": customer.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Customer registered successfully",
		"user":    customerResponse(customer),
		"tokens":  tokens,
	})
}

// Login authenticates a customer by email
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}

	customer, tokens, err := ctrl.authService.LoginCustomer(req.Email, req.Password)
	if err != nil {
		ctrl.respondLoginError(c, err)
		return
	}

	log.Info("Customer logged in", map[string]interface{}{
		"customer_id": customer.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    customerResponse(customer),
		"tokens":  tokens,
	})
}

// StaffLogin authenticates a staff member by EMP code or email
// POST /api/v1/auth/staff/login
func (ctrl *AuthController) StaffLogin(c *gin.Context) {
	var req StaffLoginRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}

	staff, tokens, err := ctrl.authService.LoginStaff(req.Identifier, req.Password)
	if err != nil {
		ctrl.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":       staff.ID,
			"staff_id": staff.Code(),
			"name":     staff.Name,
			"email":    staff.Email,
			"position": staff.Position,
			"role":     model.RoleStaff,
		},
		"tokens": tokens,
	})
}

// AdminLogin authenticates an admin by ADM code or email
// POST /api/v1/auth/admin/login
func (ctrl *AuthController) AdminLogin(c *gin.Context) {
	var req StaffLoginRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}

	admin, tokens, err := ctrl.authService.LoginAdmin(req.Identifier, req.Password)
	if err != nil {
		ctrl.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":       admin.ID,
			"admin_id": admin.Code(),
			"name":     admin.Name,
			"email":    admin.Email,
			"role":     model.RoleAdmin,
		},
		"tokens": tokens,
	})
}

func (ctrl *AuthController) respondLoginError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid credentials")
		return
	}
	middleware.GetLoggerFromContext(c).Error("Login failed", err)
	apperrors.InternalError(c, "")
}

// RefreshToken issues a new token pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}

	tokens, err := ctrl.authService.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) || errors.Is(err, service.ErrUserNotFound) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Refresh token is invalid")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Token refresh failed", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	claims, token, ok := middleware.GetClaims(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token, claims); err != nil {
		log.Error("Failed to revoke token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		apperrors.InternalError(c, "Logout failed, please try again")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetMe returns the logged in customer's profile
// GET /api/v1/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	customer, err := ctrl.accountService.GetProfile(customerID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.AccountNotFound, "Customer not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to load profile", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": customerResponse(customer)})
}

// UpdateMe updates the logged in customer's profile
// PUT /api/v1/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	customerID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := validation.BindAndValidate(c, &req, validate); err != nil {
		return
	}

	customer, err := ctrl.accountService.UpdateProfile(customerID, service.ProfileInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			apperrors.NotFound(c, apperrors.AccountNotFound, "Customer not found")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email is already registered")
		case errors.Is(err, service.ErrCurrentPasswordMismatch):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthPasswordMismatch, "Current password is incorrect")
		case errors.Is(err, util.ErrPasswordTooShort):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		default:
			log.Error("Failed to update profile", err, map[string]interface{}{
				"customer_id": customerID,
			})
			apperrors.RespondWithParsedError(c, err, "update customer")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated",
		"user":    customerResponse(customer),
	})
}
