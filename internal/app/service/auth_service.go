package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

// TokenRevoker stores logged out access tokens until they expire
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiry time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
	Address  string
}

type AuthService interface {
	RegisterCustomer(input RegisterInput) (*model.Customer, *util.TokenPair, error)
	LoginCustomer(email, password string) (*model.Customer, *util.TokenPair, error)
	LoginStaff(identifier, password string) (*model.Staff, *util.TokenPair, error)
	LoginAdmin(identifier, password string) (*model.Admin, *util.TokenPair, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, accessToken string, claims *util.Claims) error
}

type authService struct {
	customerRepo  repository.CustomerRepository
	staffRepo     repository.StaffRepository
	adminRepo     repository.AdminRepository
	activity      ActivityService
	revoker       TokenRevoker
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService builds the login flows. revoker may be nil when Redis is
// disabled, in which case logout is stateless.
func NewAuthService(
	customerRepo repository.CustomerRepository,
	staffRepo repository.StaffRepository,
	adminRepo repository.AdminRepository,
	activity ActivityService,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		customerRepo:  customerRepo,
		staffRepo:     staffRepo,
		adminRepo:     adminRepo,
		activity:      activity,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) issue(id uint, email string, role model.UserRole) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(id, email, string(role), s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": id,
			"role":    role,
		})
		return nil, err
	}
	return tokens, nil
}

func (s *authService) RegisterCustomer(input RegisterInput) (*model.Customer, *util.TokenPair, error) {
	email := normalizeEmail(input.Email)
	logger.Info("Attempting customer registration", map[string]interface{}{
		"email": email,
	})

	if err := util.CheckPasswordPolicy(input.Password); err != nil {
		return nil, nil, err
	}

	taken, err := s.customerRepo.EmailTaken(email, 0)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	customer := &model.Customer{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		PasswordHash: hash,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issue(customer.ID, customer.Email, model.RoleCustomer)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Customer registered successfully", map[string]interface{}{
		"customer_id": customer.ID,
		"email":       customer.Email,
	})
	return customer, tokens, nil
}

func (s *authService) LoginCustomer(email, password string) (*model.Customer, *util.TokenPair, error) {
	email = normalizeEmail(email)
	customer, err := s.customerRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: customer not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(customer.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"customer_id": customer.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issue(customer.ID, customer.Email, model.RoleCustomer)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Customer logged in", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return customer, tokens, nil
}

// LoginStaff accepts either the EMP code or the email address
func (s *authService) LoginStaff(identifier, password string) (*model.Staff, *util.TokenPair, error) {
	staff, err := s.staffRepo.FindByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Staff login failed: unknown identifier", map[string]interface{}{
				"identifier": identifier,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !util.VerifyPassword(staff.PasswordHash, password) {
		logger.Warn("Staff login failed: invalid password", map[string]interface{}{
			"staff_id": staff.Code(),
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issue(staff.ID, staff.Email, model.RoleStaff)
	if err != nil {
		return nil, nil, err
	}

	s.recordLogin(model.Actor{Name: staff.Name, Code: staff.Code(), Role: model.RoleStaff}, model.ActionStaffLogin)
	return staff, tokens, nil
}

// LoginAdmin accepts either the ADM code or the email address
func (s *authService) LoginAdmin(identifier, password string) (*model.Admin, *util.TokenPair, error) {
	admin, err := s.adminRepo.FindByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Admin login failed: unknown identifier", map[string]interface{}{
				"identifier": identifier,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !util.VerifyPassword(admin.PasswordHash, password) {
		logger.Warn("Admin login failed: invalid password", map[string]interface{}{
			"admin_id": admin.Code(),
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issue(admin.ID, admin.Email, model.RoleAdmin)
	if err != nil {
		return nil, nil, err
	}

	s.recordLogin(model.Actor{Name: admin.Name, Code: admin.Code(), Role: model.RoleAdmin}, model.ActionAdminLogin)
	return admin, tokens, nil
}

func (s *authService) recordLogin(actor model.Actor, action string) {
	logger.Info("Back office login", map[string]interface{}{
		"staff_id": actor.Code,
		"role":     actor.Role,
	})
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(actor, action, ""); err != nil {
		logger.Warn("Failed to record login activity", map[string]interface{}{
			"staff_id": actor.Code,
			"error":    err.Error(),
		})
	}
}

// Refresh exchanges a refresh token for a new pair if the account still exists
func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil || claims.TokenType != util.RefreshToken {
		logger.Warn("Rejected refresh token")
		return nil, ErrInvalidRefresh
	}

	var email string
	switch model.UserRole(claims.Role) {
	case model.RoleCustomer:
		customer, err := s.customerRepo.FindByID(claims.UserID)
		if err != nil {
			return nil, s.accountLookupError(err)
		}
		email = customer.Email
	case model.RoleStaff:
		staff, err := s.staffRepo.FindByID(claims.UserID)
		if err != nil {
			return nil, s.accountLookupError(err)
		}
		email = staff.Email
	case model.RoleAdmin:
		admin, err := s.adminRepo.FindByID(claims.UserID)
		if err != nil {
			return nil, s.accountLookupError(err)
		}
		email = admin.Email
	default:
		return nil, ErrInvalidRefresh
	}

	return s.issue(claims.UserID, email, model.UserRole(claims.Role))
}

func (s *authService) accountLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// Logout revokes the access token for the rest of its lifetime
func (s *authService) Logout(ctx context.Context, accessToken string, claims *util.Claims) error {
	if s.revoker == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, accessToken, time.Until(claims.ExpiresAt.Time)); err != nil {
		return err
	}
	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
		"role":    claims.Role,
	})
	return nil
}
