package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"not null;index"`
	Title   string `json:"title" gorm:"size:255"`
	Message string `json:"message" gorm:"type:text"`
	Type    string `json:"type" gorm:"size:32;index"` // booking_request, booking_status, inquiry
	RefID   uint   `json:"refID" gorm:"index"`
	RefType string `json:"refType" gorm:"size:32"` // booking, property, inquiry
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
