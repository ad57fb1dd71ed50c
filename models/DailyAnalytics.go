package models

import "time"

// DailyAnalytics holds per-property per-day counters. At most one row per
// (property, date); rows are created lazily on the first increment and the
// counters only ever grow.
type DailyAnalytics struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PropertyID uint      `json:"propertyID" gorm:"not null;uniqueIndex:idx_property_date"`
	Date       time.Time `json:"date" gorm:"not null;uniqueIndex:idx_property_date"`
	Views      int64     `json:"views" gorm:"default:0"`
	Bookings   int64     `json:"bookings" gorm:"default:0"`
	Downloads  int64     `json:"downloads" gorm:"default:0"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
