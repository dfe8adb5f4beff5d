package model

import (
	"fmt"
	"time"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleStaff    UserRole = "staff"
	RoleAdmin    UserRole = "admin"
)

const (
	customerCodeFormat = "CUST%05d"
	staffCodeFormat    = "EMP%05d"
	adminCodeFormat    = "ADM%05d"
)

type Customer struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone"`
	Address      string    `gorm:"type:text" json:"address"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// DisplayCode is the customer id shown in admin listings.
func (c Customer) DisplayCode() string {
	return fmt.Sprintf(customerCodeFormat, c.ID)
}

type Staff struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	StaffCode    *string   `gorm:"type:varchar(20);uniqueIndex" json:"staff_id"` // EMP00001, set after insert
	Name         string    `gorm:"type:varchar(255);not null" json:"staff_name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"staff_email"`
	Phone        string    `gorm:"type:varchar(50)" json:"staff_phone"`
	Address      string    `gorm:"type:text" json:"staff_address"`
	Position     string    `gorm:"type:varchar(50);default:'Staff'" json:"role"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Staff) TableName() string {
	return "staff"
}

// Code returns the display code, empty until assigned.
func (s Staff) Code() string {
	if s.StaffCode == nil {
		return ""
	}
	return *s.StaffCode
}

func StaffCodeFor(id uint) string {
	return fmt.Sprintf(staffCodeFormat, id)
}

type Admin struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	AdminCode    *string   `gorm:"type:varchar(20);uniqueIndex" json:"admin_id"` // ADM00001, set after insert
	Name         string    `gorm:"type:varchar(255);not null" json:"admin_name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"admin_email"`
	Phone        string    `gorm:"type:varchar(50)" json:"admin_phone"`
	Address      string    `gorm:"type:text" json:"admin_address"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}

func (a Admin) Code() string {
	if a.AdminCode == nil {
		return ""
	}
	return *a.AdminCode
}

func AdminCodeFor(id uint) string {
	return fmt.Sprintf(adminCodeFormat, id)
}

// Actor identifies the staff member or admin performing an action.
type Actor struct {
	Name string
	Code string
	Role UserRole
}
