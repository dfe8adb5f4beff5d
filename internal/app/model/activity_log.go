package model

import "time"

type ActivityLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	StaffName string    `gorm:"type:varchar(255);not null;index" json:"staff_name"`
	StaffID   string    `gorm:"type:varchar(20);index" json:"staff_id"` // EMP/ADM display code
	Action    string    `gorm:"type:varchar(255);not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

const (
	ActionStaffLogin        = "Staff logged in"
	ActionAdminLogin        = "Admin logged in"
	ActionUpdateOrderStatus = "Updated order status"
	ActionDeleteOrder       = "Deleted order"
	ActionAddMenuItem       = "Added menu item"
	ActionUpdateMenuItem    = "Updated menu item"
	ActionDeleteMenuItem    = "Deleted menu item"
	ActionAddStaff          = "Added staff"
	ActionUpdateStaff       = "Updated staff"
	ActionDeleteStaff       = "Deleted staff"
	ActionAddCustomer       = "Added customer"
	ActionUpdateCustomer    = "Updated customer"
	ActionDeleteCustomer    = "Deleted customer"
	ActionClearActivityLog  = "Cleared activity log"
)
