package models

import "gorm.io/gorm"

// Roles mirror the access tiers the dashboard cares about. Customers can
// only request bookings; agents see the properties assigned to them;
// managers and admins run the back office.
const (
	RoleCustomer = "customer"
	RoleAgent    = "agent"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Password   string `json:"-"`
	Phone      string `json:"phone"`
	Role       string `json:"role" gorm:"type:varchar(20);default:customer;index"`
	Permission string `json:"permission" gorm:"type:varchar(20)"` // full_access, view_only

	// Listings this agent is responsible for. Used by the per-agent
	// performance rollup.
	AssignedProperties []Property `json:"assignedProperties,omitempty" gorm:"foreignKey:AssignedAgentID"`

	// Bookings survive user deletion, so the back-reference is weak.
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleAgent || u.Role == RoleManager || u.Role == RoleAdmin
}
