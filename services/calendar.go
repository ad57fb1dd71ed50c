package services

import (
	"log"

	"github.com/google/uuid"

	"github.com/tntanvir/eastmondvillas/models"
)

// CalendarSync mirrors approved bookings to an external calendar. It is a
// post-commit hook only: the booking engine is the source of truth for
// conflicts, and sync failures never affect booking state.
type CalendarSync interface {
	SyncApproved(booking *models.Booking) (eventID string, err error)
	RemoveEvent(booking *models.Booking) error
}

// logCalendar is the default implementation. It fabricates event ids and
// logs what a real connector would push.
type logCalendar struct{}

func NewLogCalendar() CalendarSync {
	return &logCalendar{}
}

func (c *logCalendar) SyncApproved(booking *models.Booking) (string, error) {
	eventID := uuid.NewString()
	log.Printf("calendar: booking %d approved, event %s (%s to %s)",
		booking.ID, eventID,
		booking.CheckIn.Format("2006-01-02"), booking.CheckOut.Format("2006-01-02"))
	return eventID, nil
}

func (c *logCalendar) RemoveEvent(booking *models.Booking) error {
	log.Printf("calendar: booking %d released, removing event %s", booking.ID, booking.GoogleEventID)
	return nil
}
