package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking lifecycle. A booking is always created pending; only approved
// bookings block other date ranges.
const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusRejected  = "rejected"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// BookingStatuses is the closed set of recognized status values.
var BookingStatuses = []string{
	BookingStatusPending,
	BookingStatusApproved,
	BookingStatusRejected,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

type Booking struct {
	gorm.Model
	PropertyID uint  `json:"propertyID" gorm:"not null;index:idx_bookings_scan;constraint:OnDelete:CASCADE"`
	UserID     *uint `json:"userID" gorm:"index;constraint:OnDelete:SET NULL"`

	// Contact snapshot, kept independent of the live user record.
	FullName string `json:"fullName" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;not null"`
	Phone    string `json:"phone" gorm:"size:30"`

	// Calendar dates stored at midnight UTC; [CheckIn, CheckOut) is
	// half-open so back-to-back stays share a boundary day.
	CheckIn  time.Time `json:"checkIn" gorm:"not null;index:idx_bookings_scan"`
	CheckOut time.Time `json:"checkOut" gorm:"not null;index:idx_bookings_scan"`

	Status     string  `json:"status" gorm:"type:varchar(20);default:pending;index:idx_bookings_scan"`
	TotalPrice float64 `json:"totalPrice" gorm:"type:decimal(10,2);default:0"`

	// Event id handed back by the external calendar hook, if configured.
	GoogleEventID string `json:"googleEventID" gorm:"size:255"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
