package models

import (
	"math/rand"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property listing statuses. Only published listings are visible to the
// public; the rest exist for the back-office workflow.
const (
	PropertyStatusDraft     = "draft"
	PropertyStatusPending   = "pending"
	PropertyStatusPublished = "published"
	PropertyStatusArchived  = "archived"
)

type Property struct {
	gorm.Model
	Title       string  `json:"title" gorm:"not null"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;size:255"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2);default:0"`
	ListingType string  `json:"listingType" gorm:"type:varchar(20)"` // rent, sale
	Status      string  `json:"status" gorm:"type:varchar(20);default:draft;index"`

	Address   string `json:"address" gorm:"type:text"`
	City      string `json:"city" gorm:"size:120"`
	MaxGuests int    `json:"maxGuests" gorm:"default:1"`
	Bedrooms  int    `json:"bedrooms"`
	Bathrooms int    `json:"bathrooms"`
	HasPool   bool   `json:"hasPool" gorm:"default:false"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	PlaceID   string   `json:"placeID" gorm:"size:255"`

	SeoTitle              string         `json:"seoTitle" gorm:"size:255"`
	SeoDescription        string         `json:"seoDescription" gorm:"type:text"`
	Amenities             datatypes.JSON `json:"amenities"`
	SignatureDistinctions datatypes.JSON `json:"signatureDistinctions"`
	Staff                 datatypes.JSON `json:"staff"`

	// External calendar integration (historic; the booking engine is the
	// source of truth, the calendar only mirrors it).
	CalendarLink     string `json:"calendarLink" gorm:"size:512"`
	GoogleCalendarID string `json:"googleCalendarID" gorm:"size:255"`

	CreatedByID     *uint `json:"createdByID"`
	AssignedAgentID *uint `json:"assignedAgentID" gorm:"index"`
	CreatedBy       *User `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
	AssignedAgent   *User `json:"assignedAgent,omitempty" gorm:"foreignKey:AssignedAgentID"`

	// Bookings die with their property.
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	lastDash := true
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > 200 {
		out = out[:200]
	}
	return out
}

// BeforeCreate fills in a unique slug, retrying with a random suffix on
// collision.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.Slug != "" {
		return nil
	}
	base := slugify(p.Title)
	slug := base
	for {
		var count int64
		if err := tx.Model(&Property{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			break
		}
		suffix := make([]byte, 4)
		for i := range suffix {
			suffix[i] = slugAlphabet[rand.Intn(len(slugAlphabet))]
		}
		slug = base + "-" + string(suffix)
	}
	p.Slug = slug
	return nil
}
