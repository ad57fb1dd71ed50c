package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/tntanvir/eastmondvillas/models"
)

// NotificationService writes in-app notification rows. Delivery to devices
// is someone else's problem; this only records what happened.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// NotifyBookingRequested tells the back office a new booking request
// arrived. Managers, admins and the property's assigned agent each get a
// row.
func (ns *NotificationService) NotifyBookingRequested(booking *models.Booking, property *models.Property) {
	var staff []models.User
	q := ns.DB.Where("role IN ?", []string{models.RoleManager, models.RoleAdmin})
	if property.AssignedAgentID != nil {
		q = q.Or("id = ?", *property.AssignedAgentID)
	}
	if err := q.Find(&staff).Error; err != nil {
		log.Printf("notifications: could not load staff for booking %d: %v", booking.ID, err)
		return
	}

	message := fmt.Sprintf("New booking request for %s from %s to %s",
		property.Title,
		booking.CheckIn.Format("Jan 2, 2006"), booking.CheckOut.Format("Jan 2, 2006"))

	for _, user := range staff {
		notification := models.Notification{
			UserID:  user.ID,
			Title:   "New Booking Request",
			Message: message,
			Type:    "booking_request",
			RefID:   booking.ID,
			RefType: "booking",
		}
		ns.DB.Create(&notification)
	}
}

// NotifyBookingStatus tells the requester their booking moved.
func (ns *NotificationService) NotifyBookingStatus(booking *models.Booking) {
	if booking.UserID == nil {
		return
	}
	title := "Booking Update"
	message := fmt.Sprintf("Your booking has been %s", booking.Status)
	if booking.Property != nil {
		message = fmt.Sprintf("Your booking for %s has been %s", booking.Property.Title, booking.Status)
	}
	notification := models.Notification{
		UserID:  *booking.UserID,
		Title:   title,
		Message: message,
		Type:    "booking_status",
		RefID:   booking.ID,
		RefType: "booking",
	}
	ns.DB.Create(&notification)
}
