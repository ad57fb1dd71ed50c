package services

import (
	"errors"
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tntanvir/eastmondvillas/models"
	"github.com/tntanvir/eastmondvillas/utils"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("actor may not perform this transition")
	ErrInvalidStatus = errors.New("unknown booking status")
	ErrDateConflict  = errors.New("dates conflict with an approved booking")
)

// BookingService owns booking creation, the status lifecycle, the
// approved-overlap conflict check and month availability.
type BookingService struct {
	DB       *gorm.DB
	Calendar CalendarSync
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db, Calendar: NewLogCalendar()}
}

type CreateBookingInput struct {
	PropertyID uint
	UserID     *uint
	FullName   string
	Email      string
	Phone      string
	CheckIn    time.Time
	CheckOut   time.Time
	TotalPrice float64
}

// Create validates the date range and persists a new booking. The status
// is always pending regardless of what the caller supplies; a booking is
// never created pre-approved.
func (s *BookingService) Create(input CreateBookingInput, now time.Time) (*models.Booking, error) {
	if vErr := utils.ValidateRange(input.CheckIn, input.CheckOut, now); vErr != nil {
		return nil, vErr
	}

	var property models.Property
	if err := s.DB.First(&property, input.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	booking := models.Booking{
		PropertyID: property.ID,
		UserID:     input.UserID,
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		CheckIn:    utils.Day(input.CheckIn),
		CheckOut:   utils.Day(input.CheckOut),
		Status:     models.BookingStatusPending,
		TotalPrice: input.TotalPrice,
	}
	if err := s.DB.Create(&booking).Error; err != nil {
		return nil, err
	}
	booking.Property = &property
	return &booking, nil
}

// UpdateStatus drives the booking lifecycle. The authorization decision is
// supplied by the caller; this layer only consumes the boolean. Approval
// runs the conflict check and the status write inside one transaction,
// serialized per property by a row lock, so two concurrent approvals for
// overlapping ranges cannot both commit.
func (s *BookingService) UpdateStatus(bookingID uint, newStatus string, actorMayTransition bool, now time.Time) (*models.Booking, error) {
	if !actorMayTransition {
		return nil, ErrForbidden
	}
	if !slices.Contains(models.BookingStatuses, newStatus) {
		return nil, ErrInvalidStatus
	}

	var booking models.Booking
	if err := s.DB.Preload("Property").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Re-submitting the current status is a no-op.
	if booking.Status == newStatus {
		return &booking, nil
	}

	if newStatus == models.BookingStatusApproved {
		already := false
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			already, txErr = s.approveLocked(tx, &booking, now)
			return txErr
		})
		if err != nil {
			return nil, err
		}
		booking.Status = models.BookingStatusApproved
		if !already {
			s.syncCalendar(&booking)
		}
		return &booking, nil
	}

	// Non-approval transitions are unconditional; the state machine is
	// deliberately permissive beyond the approval conflict check.
	if err := s.DB.Model(&booking).Update("status", newStatus).Error; err != nil {
		return nil, err
	}
	booking.Status = newStatus

	if newStatus == models.BookingStatusCancelled || newStatus == models.BookingStatusRejected {
		s.removeCalendarEvent(&booking)
	}
	return &booking, nil
}

// approveLocked runs the approval inside the caller's transaction. The
// status read before the transaction started may be stale, so the
// booking is re-read under the property lock and a concurrent approval
// that already committed turns this call into a no-op: the conflict
// check and the analytics increment run at most once per approval.
func (s *BookingService) approveLocked(tx *gorm.DB, booking *models.Booking, now time.Time) (already bool, err error) {
	// Lock the parent property row so concurrent approvals for the same
	// property observe each other's writes. SQLite has a single writer
	// and no FOR UPDATE syntax, so the lock is postgres-only.
	locked := tx
	if tx.Dialector.Name() == "postgres" {
		locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var property models.Property
	if err := locked.First(&property, booking.PropertyID).Error; err != nil {
		return false, err
	}

	var current models.Booking
	if err := tx.First(&current, booking.ID).Error; err != nil {
		return false, err
	}
	if current.Status == models.BookingStatusApproved {
		return true, nil
	}

	conflict, err := s.hasConflict(tx, booking.PropertyID, booking.CheckIn, booking.CheckOut, booking.ID, now)
	if err != nil {
		return false, err
	}
	if conflict {
		return false, ErrDateConflict
	}

	if err := tx.Model(booking).Update("status", models.BookingStatusApproved).Error; err != nil {
		return false, err
	}
	// Counted in the same transaction: a failed status write must not
	// leave an analytics increment behind.
	return false, Increment(tx, booking.PropertyID, now, MetricBookings)
}

// hasConflict reports whether the candidate range is blocked for the
// property. A check-in before today blocks exactly like an overlap; the
// original system folds both conditions into one signal and callers rely
// on that. Runs on the caller's transaction.
func (s *BookingService) hasConflict(tx *gorm.DB, propertyID uint, checkIn, checkOut time.Time, excludeBookingID uint, now time.Time) (bool, error) {
	if checkIn.Before(utils.Day(now)) {
		return true, nil
	}

	var count int64
	q := tx.Model(&models.Booking{}).
		Where("property_id = ? AND status = ?", propertyID, models.BookingStatusApproved).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// BookedRange is one approved stay clipped to a display window.
type BookedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthAvailability returns the approved stays touching the given month,
// each clipped to the month's first and last day. The selection window is
// inclusive at both ends: this is a display clip, not the exclusivity
// predicate.
func (s *BookingService) MonthAvailability(propertyID uint, month time.Month, year int) ([]BookedRange, error) {
	var property models.Property
	if err := s.DB.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	monthStart, monthEnd := utils.MonthWindow(year, month)

	var bookings []models.Booking
	if err := s.DB.
		Where("property_id = ? AND status = ?", propertyID, models.BookingStatusApproved).
		Where("check_in <= ? AND check_out >= ?", monthEnd, monthStart).
		Order("check_in ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	ranges := make([]BookedRange, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, BookedRange{
			Start: utils.MaxDay(b.CheckIn, monthStart),
			End:   utils.MinDay(b.CheckOut, monthEnd),
		})
	}
	return ranges, nil
}

// Calendar hooks run after commit and are best-effort: a sync failure
// never rolls back or fails a booking transition.
func (s *BookingService) syncCalendar(booking *models.Booking) {
	if s.Calendar == nil || booking.Property == nil || booking.Property.GoogleCalendarID == "" {
		return
	}
	eventID, err := s.Calendar.SyncApproved(booking)
	if err != nil {
		return
	}
	booking.GoogleEventID = eventID
	s.DB.Model(booking).Update("google_event_id", eventID)
}

func (s *BookingService) removeCalendarEvent(booking *models.Booking) {
	if s.Calendar == nil || booking.GoogleEventID == "" {
		return
	}
	if err := s.Calendar.RemoveEvent(booking); err != nil {
		return
	}
	booking.GoogleEventID = ""
	s.DB.Model(booking).Update("google_event_id", "")
}
