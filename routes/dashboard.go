package routes

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/tntanvir/eastmondvillas/services"
	"github.com/tntanvir/eastmondvillas/storage"
	"github.com/tntanvir/eastmondvillas/utils"
)

var bgContext = context.Background()

const dashboardCacheTTL = 60 * time.Second

type dashboardPayload struct {
	Start   string                       `json:"start"`
	End     string                       `json:"end"`
	Totals  services.AnalyticsTotals     `json:"totals"`
	Series  []services.PerformanceBucket `json:"series"`
	Pending int64                        `json:"pendingBookings"`
}

// GetDashboard serves the staff overview: totals and the performance
// series over a date range (default: the last 30 days), plus the pending
// booking backlog. Responses are cached briefly in redis.
func GetDashboard(ctx iris.Context) {
	now := time.Now()
	start := utils.Day(now.AddDate(0, 0, -30))
	end := utils.Day(now)

	if s := ctx.URLParam("start"); s != "" {
		parsed, vErr := utils.ParseDay("start", s)
		if vErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", vErr.Message, ctx)
			return
		}
		start = parsed
	}
	if s := ctx.URLParam("end"); s != "" {
		parsed, vErr := utils.ParseDay("end", s)
		if vErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", vErr.Message, ctx)
			return
		}
		end = parsed
	}

	var propertyID *uint
	if pid, err := ctx.URLParamInt("propertyID"); err == nil && pid > 0 {
		id := uint(pid)
		propertyID = &id
	}

	cacheKey := "dashboard:" + start.Format(utils.DayFormat) + ":" + end.Format(utils.DayFormat)
	if propertyID != nil {
		cacheKey += ":" + ctx.URLParam("propertyID")
	}
	if storage.Redis != nil {
		if cached, err := storage.Redis.Get(bgContext, cacheKey).Result(); err == nil {
			var payload dashboardPayload
			if json.Unmarshal([]byte(cached), &payload) == nil {
				ctx.JSON(iris.Map{"data": payload, "cached": true})
				return
			}
		}
	}

	totals, err := services.Summarize(storage.DB, propertyID, start, end)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	series, err := services.PerformanceSeries(storage.DB, start, end)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	var pending int64
	storage.DB.Table("bookings").Where("status = ? AND deleted_at IS NULL", "pending").Count(&pending)

	payload := dashboardPayload{
		Start:   start.Format(utils.DayFormat),
		End:     end.Format(utils.DayFormat),
		Totals:  totals,
		Series:  series,
		Pending: pending,
	}

	if storage.Redis != nil {
		if encoded, err := json.Marshal(payload); err == nil {
			if err := storage.Redis.Set(bgContext, cacheKey, encoded, dashboardCacheTTL).Err(); err != nil {
				log.Printf("dashboard: cache write failed: %v", err)
			}
		}
	}

	ctx.JSON(iris.Map{"data": payload, "cached": false})
}

// GetAgentPerformance lists per-agent rollups for managers.
func GetAgentPerformance(ctx iris.Context) {
	rollups, err := services.AgentRollup(storage.DB)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}
	ctx.JSON(iris.Map{"data": rollups})
}
