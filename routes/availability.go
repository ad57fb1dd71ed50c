package routes

import (
	"errors"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/tntanvir/eastmondvillas/services"
	"github.com/tntanvir/eastmondvillas/storage"
	"github.com/tntanvir/eastmondvillas/utils"
)

// GetPropertyAvailability returns the approved stays of a property clipped
// to one calendar month. Pending requests do not reserve dates and never
// show up here.
func GetPropertyAvailability(ctx iris.Context) {
	propertyID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid property id", ctx)
		return
	}

	month := ctx.URLParamIntDefault("month", int(time.Now().Month()))
	year := ctx.URLParamIntDefault("year", time.Now().Year())
	if month < 1 || month > 12 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "month must be between 1 and 12", ctx)
		return
	}
	if year < 1 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "invalid year", ctx)
		return
	}

	svc := services.NewBookingService(storage.DB)
	ranges, err := svc.MonthAvailability(propertyID, time.Month(month), year)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	type rangeOut struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	out := make([]rangeOut, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, rangeOut{
			Start: r.Start.Format(utils.DayFormat),
			End:   r.End.Format(utils.DayFormat),
		})
	}

	ctx.JSON(iris.Map{
		"propertyID": propertyID,
		"month":      month,
		"year":       year,
		"booked":     out,
	})
}
