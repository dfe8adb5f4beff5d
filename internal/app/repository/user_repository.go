package repository

import (
	"strings"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindByID(id uint) (*model.Customer, error)
	FindByEmail(email string) (*model.Customer, error)
	FindAll() ([]model.Customer, error)
	EmailTaken(email string, excludeID uint) (bool, error)
	Update(customer *model.Customer) error
	Delete(id uint) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(customer *model.Customer) error {
	logger.Debug("Creating customer in database", map[string]interface{}{
		"email": customer.Email,
	})

	if err := r.db.Create(customer).Error; err != nil {
		logger.Error("Failed to create customer in database", err, map[string]interface{}{
			"email": customer.Email,
		})
		return err
	}

	logger.Debug("Customer created in database", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return nil
}

func (r *customerRepository) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		logger.Error("Failed to find customer by ID in database", err, map[string]interface{}{
			"customer_id": id,
		})
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByEmail(email string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	if err := r.db.Order("id ASC").Find(&customers).Error; err != nil {
		logger.Error("Failed to list customers", err)
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) EmailTaken(email string, excludeID uint) (bool, error) {
	return emailTaken(r.db, &model.Customer{}, "email", email, excludeID)
}

func (r *customerRepository) Update(customer *model.Customer) error {
	if err := r.db.Save(customer).Error; err != nil {
		logger.Error("Failed to update customer in database", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return err
	}
	return nil
}

func (r *customerRepository) Delete(id uint) error {
	res := r.db.Delete(&model.Customer{}, id)
	if res.Error != nil {
		logger.Error("Failed to delete customer", res.Error, map[string]interface{}{
			"customer_id": id,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type StaffRepository interface {
	Create(staff *model.Staff) error
	FindByID(id uint) (*model.Staff, error)
	FindByIdentifier(identifier string) (*model.Staff, error)
	FindAll() ([]model.Staff, error)
	EmailTaken(email string, excludeID uint) (bool, error)
	Update(staff *model.Staff) error
	Delete(id uint) error
}

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

// Create inserts the staff member and assigns the EMP code derived from
// the new row id in the same transaction.
func (r *staffRepository) Create(staff *model.Staff) error {
	logger.Debug("Creating staff in database", map[string]interface{}{
		"email": staff.Email,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(staff).Error; err != nil {
			return err
		}
		code := model.StaffCodeFor(staff.ID)
		if err := tx.Model(staff).Update("staff_code", code).Error; err != nil {
			return err
		}
		staff.StaffCode = &code
		return nil
	})
	if err != nil {
		logger.Error("Failed to create staff in database", err, map[string]interface{}{
			"email": staff.Email,
		})
		return err
	}

	logger.Debug("Staff created in database", map[string]interface{}{
		"staff_id": staff.Code(),
	})
	return nil
}

func (r *staffRepository) FindByID(id uint) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.First(&staff, id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

// FindByIdentifier looks a staff member up by EMP code or email
func (r *staffRepository) FindByIdentifier(identifier string) (*model.Staff, error) {
	var staff model.Staff
	id := strings.TrimSpace(identifier)
	if err := r.db.Where("staff_code = ? OR LOWER(email) = ?", strings.ToUpper(id), strings.ToLower(id)).
		First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindAll() ([]model.Staff, error) {
	var staff []model.Staff
	if err := r.db.Order("id ASC").Find(&staff).Error; err != nil {
		logger.Error("Failed to list staff", err)
		return nil, err
	}
	return staff, nil
}

func (r *staffRepository) EmailTaken(email string, excludeID uint) (bool, error) {
	return emailTaken(r.db, &model.Staff{}, "email", email, excludeID)
}

func (r *staffRepository) Update(staff *model.Staff) error {
	if err := r.db.Save(staff).Error; err != nil {
		logger.Error("Failed to update staff in database", err, map[string]interface{}{
			"staff_id": staff.Code(),
		})
		return err
	}
	return nil
}

func (r *staffRepository) Delete(id uint) error {
	res := r.db.Delete(&model.Staff{}, id)
	if res.Error != nil {
		logger.Error("Failed to delete staff", res.Error, map[string]interface{}{
			"id": id,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type AdminRepository interface {
	Create(admin *model.Admin) error
	FindByID(id uint) (*model.Admin, error)
	FindByIdentifier(identifier string) (*model.Admin, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(admin *model.Admin) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		code := model.AdminCodeFor(admin.ID)
		if err := tx.Model(admin).Update("admin_code", code).Error; err != nil {
			return err
		}
		admin.AdminCode = &code
		return nil
	})
	if err != nil {
		logger.Error("Failed to create admin in database", err, map[string]interface{}{
			"email": admin.Email,
		})
	}
	return err
}

func (r *adminRepository) FindByID(id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByIdentifier looks an admin up by ADM code or email
func (r *adminRepository) FindByIdentifier(identifier string) (*model.Admin, error) {
	var admin model.Admin
	id := strings.TrimSpace(identifier)
	if err := r.db.Where("admin_code = ? OR LOWER(email) = ?", strings.ToUpper(id), strings.ToLower(id)).
		First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func emailTaken(db *gorm.DB, table interface{}, column, email string, excludeID uint) (bool, error) {
	var count int64
	query := db.Model(table).Where("LOWER("+column+") = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
