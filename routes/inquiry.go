package routes

import (
	"github.com/kataras/iris/v12"

	"github.com/tntanvir/eastmondvillas/models"
	"github.com/tntanvir/eastmondvillas/storage"
	"github.com/tntanvir/eastmondvillas/utils"
)

type CreateInquiryInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required"`
}

// CreateInquiry accepts a public contact-form message. Inquiries feed the
// dashboard series by date; they are not tied to a property.
func CreateInquiry(ctx iris.Context) {
	var input CreateInquiryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	inquiry := models.Inquiry{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := storage.DB.Create(&inquiry).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(inquiry)
}

func ListInquiries(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.Inquiry{})

	var total int64
	q.Count(&total)

	var inquiries []models.Inquiry
	if err := q.Offset((page - 1) * perPage).Limit(perPage).Order("created_at DESC").Find(&inquiries).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, inquiries, page, perPage, total)
}
