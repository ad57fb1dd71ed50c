package routes

import (
	"errors"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/tntanvir/eastmondvillas/models"
	"github.com/tntanvir/eastmondvillas/services"
	"github.com/tntanvir/eastmondvillas/storage"
	"github.com/tntanvir/eastmondvillas/utils"
)

type CreateBookingInput struct {
	PropertyID uint    `json:"propertyID" validate:"required"`
	FullName   string  `json:"fullName" validate:"required,max=255"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      string  `json:"phone" validate:"max=30"`
	CheckIn    string  `json:"checkIn" validate:"required"`
	CheckOut   string  `json:"checkOut" validate:"required"`
	TotalPrice float64 `json:"totalPrice" validate:"gte=0"`
}

func CreateBooking(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Dates arrive as free text and may be garbage.
	checkIn, vErr := utils.ParseDay("checkIn", input.CheckIn)
	if vErr != nil {
		handleBookingError(vErr, ctx)
		return
	}
	checkOut, vErr := utils.ParseDay("checkOut", input.CheckOut)
	if vErr != nil {
		handleBookingError(vErr, ctx)
		return
	}

	userID := claims.ID
	svc := services.NewBookingService(storage.DB)
	booking, err := svc.Create(services.CreateBookingInput{
		PropertyID: input.PropertyID,
		UserID:     &userID,
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalPrice: input.TotalPrice,
	}, time.Now())
	if err != nil {
		handleBookingError(err, ctx)
		return
	}

	services.NewNotificationService(storage.DB).NotifyBookingRequested(booking, booking.Property)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

// ListBookings returns everything for staff and only the caller's own
// bookings for customers.
func ListBookings(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	q := storage.DB.Preload("Property").Preload("User").Order("created_at DESC")
	if claims.Role == models.RoleCustomer {
		q = q.Where("user_id = ?", claims.ID)
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}
	ctx.JSON(bookings)
}

func GetBooking(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid booking id", ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.Preload("Property").Preload("User").First(&booking, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if claims.Role == models.RoleCustomer && (booking.UserID == nil || *booking.UserID != claims.ID) {
		utils.CreateForbidden(ctx)
		return
	}
	ctx.JSON(booking)
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateBookingStatus moves a booking through its lifecycle. The role
// decision is made here: managers and admins transition anything, agents
// only bookings of their assigned properties, everyone else is refused.
func UpdateBookingStatus(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid booking id", ctx)
		return
	}

	var input UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.Preload("Property").First(&booking, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	mayTransition := actorMayTransition(claims, &booking)
	before := booking

	svc := services.NewBookingService(storage.DB)
	updated, err := svc.UpdateStatus(booking.ID, input.Status, mayTransition, time.Now())
	if err != nil {
		handleBookingError(err, ctx)
		return
	}

	utils.Audit(ctx, "booking.status", "booking", updated.ID, before, updated)
	services.NewNotificationService(storage.DB).NotifyBookingStatus(updated)

	ctx.JSON(updated)
}

func actorMayTransition(claims *utils.AccessToken, booking *models.Booking) bool {
	switch claims.Role {
	case models.RoleManager, models.RoleAdmin:
		return true
	case models.RoleAgent:
		return booking.Property != nil &&
			booking.Property.AssignedAgentID != nil &&
			*booking.Property.AssignedAgentID == claims.ID
	}
	return false
}

func handleBookingError(err error, ctx iris.Context) {
	var vErr *utils.ValidationError
	switch {
	case errors.As(err, &vErr):
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{
			"title":  "Validation Error",
			"errors": []*utils.ValidationError{vErr},
		})
	case errors.Is(err, services.ErrNotFound):
		utils.CreateNotFound(ctx)
	case errors.Is(err, services.ErrForbidden):
		utils.CreateForbidden(ctx)
	case errors.Is(err, services.ErrInvalidStatus):
		utils.CreateError(iris.StatusUnprocessableEntity, "Invalid Status", "unknown booking status", ctx)
	case errors.Is(err, services.ErrDateConflict):
		utils.CreateError(iris.StatusConflict, "Date Conflict", "the selected dates are not available for this property, please choose different dates", ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}
