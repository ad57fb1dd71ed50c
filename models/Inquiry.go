package models

import "gorm.io/gorm"

// Inquiry is a contact-form message. It deliberately carries no foreign
// key to Property; the dashboard joins inquiries to the performance series
// by creation date only.
type Inquiry struct {
	gorm.Model
	Name    string `json:"name" gorm:"size:255;not null"`
	Email   string `json:"email" gorm:"size:255;not null"`
	Phone   string `json:"phone" gorm:"size:30"`
	Subject string `json:"subject" gorm:"size:255"`
	Message string `json:"message" gorm:"type:text;not null"`
}
