package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/fooddash/fooddash-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrStaffNotFound           = errors.New("staff not found")
	ErrCurrentPasswordMismatch = errors.New("current password is incorrect")
)

// ProfileInput updates the logged in customer. Empty strings and nil
// pointers keep the stored value. NewPassword needs CurrentPassword.
type ProfileInput struct {
	FullName        string
	Email           string
	Phone           *string
	Address         *string
	CurrentPassword string
	NewPassword     string
}

// CustomerInput creates a customer from the admin dashboard
type CustomerInput struct {
	FullName string
	Email    string
	Phone    string
	Address  string
	Password string
}

// CustomerUpdate is an admin edit of a customer. Empty strings and nil
// pointers keep the stored value.
type CustomerUpdate struct {
	FullName string
	Email    string
	Phone    *string
	Address  *string
	Password string
}

// StaffInput creates a staff member
type StaffInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Position string
	Password string
}

// StaffUpdate edits a staff member. Empty strings and nil pointers keep
// the stored value.
type StaffUpdate struct {
	Name     string
	Email    string
	Phone    *string
	Address  *string
	Position *string
	Password string
}

type AccountService interface {
	GetProfile(customerID uint) (*model.Customer, error)
	UpdateProfile(customerID uint, input ProfileInput) (*model.Customer, error)
	ListCustomers() ([]model.Customer, error)
	CreateCustomer(input CustomerInput, actor model.Actor) (*model.Customer, error)
	UpdateCustomer(id uint, input CustomerUpdate, actor model.Actor) (*model.Customer, error)
	DeleteCustomer(id uint, actor model.Actor) error
	CreateStaff(input StaffInput, actor model.Actor) (*model.Staff, error)
	ListStaff() ([]model.Staff, error)
	UpdateStaff(id uint, input StaffUpdate, actor model.Actor) (*model.Staff, error)
	DeleteStaff(id uint, actor model.Actor) error
	ResolveActor(role model.UserRole, id uint) (model.Actor, error)
}

type accountService struct {
	customerRepo repository.CustomerRepository
	staffRepo    repository.StaffRepository
	adminRepo    repository.AdminRepository
	activity     ActivityService
}

func NewAccountService(
	customerRepo repository.CustomerRepository,
	staffRepo repository.StaffRepository,
	adminRepo repository.AdminRepository,
	activity ActivityService,
) AccountService {
	return &accountService{
		customerRepo: customerRepo,
		staffRepo:    staffRepo,
		adminRepo:    adminRepo,
		activity:     activity,
	}
}

func (s *accountService) GetProfile(customerID uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *accountService) UpdateProfile(customerID uint, input ProfileInput) (*model.Customer, error) {
	customer, err := s.GetProfile(customerID)
	if err != nil {
		return nil, err
	}

	if input.NewPassword != "" && !util.VerifyPassword(customer.PasswordHash, input.CurrentPassword) {
		logger.Warn("Password change rejected: current password mismatch", map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, ErrCurrentPasswordMismatch
	}

	err = s.applyCustomerUpdate(customer, CustomerUpdate{
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Password: input.NewPassword,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Customer profile updated", map[string]interface{}{
		"customer_id":      customer.ID,
		"password_changed": input.NewPassword != "",
	})
	return customer, nil
}

// applyCustomerUpdate validates and saves the changes onto customer
func (s *accountService) applyCustomerUpdate(customer *model.Customer, input CustomerUpdate) error {
	email := normalizeEmail(input.Email)
	if email != "" && email != customer.Email {
		taken, err := s.customerRepo.EmailTaken(email, customer.ID)
		if err != nil {
			return err
		}
		if taken {
			logger.Warn("Customer update rejected: email in use", map[string]interface{}{
				"customer_id": customer.ID,
				"email":       email,
			})
			return ErrEmailAlreadyExists
		}
		customer.Email = email
	}

	if name := strings.TrimSpace(input.FullName); name != "" {
		customer.FullName = name
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}

	if input.Password != "" {
		if err := util.CheckPasswordPolicy(input.Password); err != nil {
			return err
		}
		hash, err := util.HashPassword(input.Password)
		if err != nil {
			return err
		}
		customer.PasswordHash = hash
	}

	return s.customerRepo.Update(customer)
}

func (s *accountService) ListCustomers() ([]model.Customer, error) {
	return s.customerRepo.FindAll()
}

func (s *accountService) CreateCustomer(input CustomerInput, actor model.Actor) (*model.Customer, error) {
	email := normalizeEmail(input.Email)
	if err := util.CheckPasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	taken, err := s.customerRepo.EmailTaken(email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	customer := &model.Customer{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		PasswordHash: hash,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}

	logger.Info("Customer created by admin", map[string]interface{}{
		"customer_id": customer.DisplayCode(),
		"created_by":  actor.Code,
	})
	s.record(actor, model.ActionAddCustomer, fmt.Sprintf("%s (%s)", customer.FullName, customer.Email))
	return customer, nil
}

func (s *accountService) UpdateCustomer(id uint, input CustomerUpdate, actor model.Actor) (*model.Customer, error) {
	customer, err := s.GetProfile(id)
	if err != nil {
		return nil, err
	}
	previousName := customer.FullName

	if err := s.applyCustomerUpdate(customer, input); err != nil {
		return nil, err
	}

	logger.Info("Customer updated by admin", map[string]interface{}{
		"customer_id": customer.DisplayCode(),
		"updated_by":  actor.Code,
	})
	s.record(actor, model.ActionUpdateCustomer, fmt.Sprintf("%s → %s", previousName, customer.FullName))
	return customer, nil
}

// DeleteCustomer removes the account. Placed orders keep their customer
// snapshot.
func (s *accountService) DeleteCustomer(id uint, actor model.Actor) error {
	customer, err := s.GetProfile(id)
	if err != nil {
		return err
	}
	if err := s.customerRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}

	logger.Info("Customer deleted", map[string]interface{}{
		"customer_id": customer.DisplayCode(),
		"deleted_by":  actor.Code,
	})
	s.record(actor, model.ActionDeleteCustomer, fmt.Sprintf("%s (%s)", customer.FullName, customer.Email))
	return nil
}

func (s *accountService) record(actor model.Actor, action, details string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(actor, action, details); err != nil {
		logger.Warn("Failed to record account activity", map[string]interface{}{
			"action": action,
			"error":  err.Error(),
		})
	}
}

func (s *accountService) CreateStaff(input StaffInput, actor model.Actor) (*model.Staff, error) {
	email := normalizeEmail(input.Email)
	if err := util.CheckPasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	taken, err := s.staffRepo.EmailTaken(email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	staff := &model.Staff{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		Position:     positionOrDefault(input.Position),
		PasswordHash: hash,
	}
	if err := s.staffRepo.Create(staff); err != nil {
		return nil, err
	}

	logger.Info("Staff member created", map[string]interface{}{
		"staff_id":   staff.Code(),
		"created_by": actor.Code,
	})
	s.record(actor, model.ActionAddStaff, fmt.Sprintf("%s (%s)", staff.Name, staff.Email))
	return staff, nil
}

func positionOrDefault(position string) string {
	if p := strings.TrimSpace(position); p != "" {
		return p
	}
	return "Staff"
}

func (s *accountService) ListStaff() ([]model.Staff, error) {
	return s.staffRepo.FindAll()
}

func (s *accountService) findStaff(id uint) (*model.Staff, error) {
	staff, err := s.staffRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return staff, nil
}

func (s *accountService) UpdateStaff(id uint, input StaffUpdate, actor model.Actor) (*model.Staff, error) {
	staff, err := s.findStaff(id)
	if err != nil {
		return nil, err
	}
	previousName := staff.Name

	email := normalizeEmail(input.Email)
	if email != "" && email != staff.Email {
		taken, err := s.staffRepo.EmailTaken(email, staff.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailAlreadyExists
		}
		staff.Email = email
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		staff.Name = name
	}
	if input.Phone != nil {
		staff.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		staff.Address = strings.TrimSpace(*input.Address)
	}
	if input.Position != nil {
		staff.Position = positionOrDefault(*input.Position)
	}

	if input.Password != "" {
		if err := util.CheckPasswordPolicy(input.Password); err != nil {
			return nil, err
		}
		hash, err := util.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		staff.PasswordHash = hash
	}

	if err := s.staffRepo.Update(staff); err != nil {
		return nil, err
	}

	logger.Info("Staff member updated", map[string]interface{}{
		"staff_id":   staff.Code(),
		"updated_by": actor.Code,
	})
	s.record(actor, model.ActionUpdateStaff, fmt.Sprintf("%s → %s", previousName, staff.Name))
	return staff, nil
}

func (s *accountService) DeleteStaff(id uint, actor model.Actor) error {
	staff, err := s.findStaff(id)
	if err != nil {
		return err
	}
	if err := s.staffRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}

	logger.Info("Staff member deleted", map[string]interface{}{
		"staff_id":   staff.Code(),
		"deleted_by": actor.Code,
	})
	s.record(actor, model.ActionDeleteStaff, fmt.Sprintf("%s (%s)", staff.Name, staff.Email))
	return nil
}

// ResolveActor loads the name and display code recorded in the activity log
func (s *accountService) ResolveActor(role model.UserRole, id uint) (model.Actor, error) {
	switch role {
	case model.RoleStaff:
		staff, err := s.findStaff(id)
		if err != nil {
			return model.Actor{}, err
		}
		return model.Actor{Name: staff.Name, Code: staff.Code(), Role: role}, nil
	case model.RoleAdmin:
		admin, err := s.adminRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.Actor{}, ErrUserNotFound
			}
			return model.Actor{}, err
		}
		return model.Actor{Name: admin.Name, Code: admin.Code(), Role: role}, nil
	default:
		return model.Actor{}, ErrUserNotFound
	}
}
