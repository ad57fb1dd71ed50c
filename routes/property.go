package routes

import (
	"log"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"

	"github.com/tntanvir/eastmondvillas/models"
	"github.com/tntanvir/eastmondvillas/services"
	"github.com/tntanvir/eastmondvillas/storage"
	"github.com/tntanvir/eastmondvillas/utils"
)

// callerRole returns the role of the caller, or customer when the request
// carries no token (public listing access).
func callerRole(ctx iris.Context) (uint, string) {
	if tok := jwt.Get(ctx); tok != nil {
		if claims, ok := tok.(*utils.AccessToken); ok {
			return claims.ID, claims.Role
		}
	}
	return 0, models.RoleCustomer
}

// ListProperties scopes visibility by role: the public sees published
// listings, agents their assignments, managers and admins everything.
func ListProperties(ctx iris.Context) {
	userID, role := callerRole(ctx)

	q := storage.DB.Preload("AssignedAgent").Order("created_at DESC")
	switch role {
	case models.RoleManager, models.RoleAdmin:
		// no filter
	case models.RoleAgent:
		q = q.Where("assigned_agent_id = ?", userID)
	default:
		q = q.Where("status = ?", models.PropertyStatusPublished)
	}

	var properties []models.Property
	if err := q.Find(&properties).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}
	ctx.JSON(properties)
}

// GetProperty returns one listing and counts the view.
func GetProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid property id", ctx)
		return
	}

	var property models.Property
	if err := storage.DB.Preload("AssignedAgent").First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := services.Increment(storage.DB, property.ID, time.Now(), services.MetricViews); err != nil {
		log.Printf("analytics: view increment failed for property %d: %v", property.ID, err)
	}

	ctx.JSON(property)
}

type CreatePropertyInput struct {
	Title           string         `json:"title" validate:"required,max=255"`
	Description     string         `json:"description"`
	Price           float64        `json:"price" validate:"gte=0"`
	ListingType     string         `json:"listingType" validate:"omitempty,oneof=rent sale"`
	Status          string         `json:"status" validate:"omitempty,oneof=draft pending published archived"`
	Address         string         `json:"address"`
	City            string         `json:"city" validate:"max=120"`
	MaxGuests       int            `json:"maxGuests" validate:"omitempty,gte=1"`
	Bedrooms        int            `json:"bedrooms" validate:"gte=0"`
	Bathrooms       int            `json:"bathrooms" validate:"gte=0"`
	HasPool         bool           `json:"hasPool"`
	Latitude        *float64       `json:"latitude"`
	Longitude       *float64       `json:"longitude"`
	Amenities       datatypes.JSON `json:"amenities"`
	AssignedAgentID *uint          `json:"assignedAgentID"`
}

func CreateProperty(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Coordinates come as a pair or not at all.
	if (input.Latitude == nil) != (input.Longitude == nil) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "both latitude and longitude must be provided together", ctx)
		return
	}

	status := input.Status
	if status == "" {
		status = models.PropertyStatusDraft
	}
	maxGuests := input.MaxGuests
	if maxGuests == 0 {
		maxGuests = 1
	}

	creatorID := claims.ID
	property := models.Property{
		Title:           input.Title,
		Description:     input.Description,
		Price:           input.Price,
		ListingType:     input.ListingType,
		Status:          status,
		Address:         input.Address,
		City:            input.City,
		MaxGuests:       maxGuests,
		Bedrooms:        input.Bedrooms,
		Bathrooms:       input.Bathrooms,
		HasPool:         input.HasPool,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Amenities:       input.Amenities,
		CreatedByID:     &creatorID,
		AssignedAgentID: input.AssignedAgentID,
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "property.create", "property", property.ID, nil, property)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

// DeleteProperty removes a listing; its bookings cascade with it.
func DeleteProperty(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid property id", ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Select("Bookings").Delete(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "property.delete", "property", property.ID, property, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

// PropertyDownloaded counts a brochure download for the listing.
func PropertyDownloaded(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid property id", ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := services.Increment(storage.DB, property.ID, time.Now(), services.MetricDownloads); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "download recorded"})
}
