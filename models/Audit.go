package models

import (
	"time"
)

// AuditLog records staff actions on bookings and listings, with JSON
// snapshots of the row before and after the change.
type AuditLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ActorUserID  uint      `json:"actorUserID" gorm:"index;not null"`
	Action       string    `json:"action" gorm:"size:64;index"`
	ResourceType string    `json:"resourceType" gorm:"size:64;index"`
	ResourceID   uint      `json:"resourceID" gorm:"index"`
	BeforeJSON   string    `json:"beforeJSON" gorm:"type:text"`
	AfterJSON    string    `json:"afterJSON" gorm:"type:text"`
	IPAddress    string    `json:"ipAddress" gorm:"size:64"`
	CreatedAt    time.Time `json:"createdAt"`
}
