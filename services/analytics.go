package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tntanvir/eastmondvillas/models"
	"github.com/tntanvir/eastmondvillas/utils"
)

// Metric is the closed set of daily counters. Dispatch is by switch, never
// by reflection over column names.
type Metric string

const (
	MetricViews     Metric = "views"
	MetricBookings  Metric = "bookings"
	MetricDownloads Metric = "downloads"
)

// dailySeriesMaxSpan is the widest range, in days, that the performance
// series still reports day by day; wider ranges collapse to months.
const dailySeriesMaxSpan = 60

func (m Metric) column() (string, error) {
	switch m {
	case MetricViews:
		return "views", nil
	case MetricBookings:
		return "bookings", nil
	case MetricDownloads:
		return "downloads", nil
	}
	return "", fmt.Errorf("unknown analytics metric %q", m)
}

// Increment bumps one counter for (property, day), creating the row with
// zeroed counters on first touch. The ON CONFLICT upsert makes concurrent
// increments for the same key additive instead of lost.
func Increment(db *gorm.DB, propertyID uint, day time.Time, metric Metric) error {
	column, err := metric.column()
	if err != nil {
		return err
	}

	row := models.DailyAnalytics{PropertyID: propertyID, Date: utils.Day(day)}
	switch metric {
	case MetricViews:
		row.Views = 1
	case MetricBookings:
		row.Bookings = 1
	case MetricDownloads:
		row.Downloads = 1
	}

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column:       gorm.Expr(column + " + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
}

// AnalyticsTotals sums counters over a date range.
type AnalyticsTotals struct {
	Views     int64 `json:"views"`
	Bookings  int64 `json:"bookings"`
	Downloads int64 `json:"downloads"`
}

// Summarize totals the counters over [start, end] inclusive. A nil
// propertyID sums across all properties. Missing days contribute zero.
func Summarize(db *gorm.DB, propertyID *uint, start, end time.Time) (AnalyticsTotals, error) {
	var totals AnalyticsTotals
	q := db.Model(&models.DailyAnalytics{}).
		Where("date >= ? AND date <= ?", utils.Day(start), utils.Day(end))
	if propertyID != nil {
		q = q.Where("property_id = ?", *propertyID)
	}
	err := q.Select(
		"COALESCE(SUM(views), 0) AS views, COALESCE(SUM(bookings), 0) AS bookings, COALESCE(SUM(downloads), 0) AS downloads",
	).Scan(&totals).Error
	return totals, err
}

// PerformanceBucket is one period of the dashboard series.
type PerformanceBucket struct {
	Period    string `json:"period"`
	Views     int64  `json:"views"`
	Downloads int64  `json:"downloads"`
	Bookings  int64  `json:"bookings"`
	Inquiries int64  `json:"inquiries"`
}

// PerformanceSeries buckets the analytics counters plus inquiry counts
// over [start, end]. Spans up to dailySeriesMaxSpan days group by day,
// longer spans by month. Every period in the range is emitted, zeros
// included.
func PerformanceSeries(db *gorm.DB, start, end time.Time) ([]PerformanceBucket, error) {
	start, end = utils.Day(start), utils.Day(end)
	if end.Before(start) {
		start, end = end, start
	}
	byDay := int(end.Sub(start).Hours()/24) <= dailySeriesMaxSpan

	keyOf := func(t time.Time) string {
		if byDay {
			return t.Format(utils.DayFormat)
		}
		return t.Format("2006-01")
	}

	// Seed every period in the window so quiet days still chart.
	var keys []string
	index := map[string]*PerformanceBucket{}
	if byDay {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			k := keyOf(d)
			index[k] = &PerformanceBucket{Period: k}
			keys = append(keys, k)
		}
	} else {
		for d := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !d.After(end); d = d.AddDate(0, 1, 0) {
			k := keyOf(d)
			index[k] = &PerformanceBucket{Period: k}
			keys = append(keys, k)
		}
	}

	var rows []models.DailyAnalytics
	if err := db.Where("date >= ? AND date <= ?", start, end).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		if bucket, ok := index[keyOf(row.Date)]; ok {
			bucket.Views += row.Views
			bucket.Downloads += row.Downloads
			bucket.Bookings += row.Bookings
		}
	}

	// Inquiries live in their own store and join by date only.
	var inquiries []models.Inquiry
	if err := db.Where("created_at >= ? AND created_at < ?", start, end.AddDate(0, 0, 1)).Find(&inquiries).Error; err != nil {
		return nil, err
	}
	for _, inq := range inquiries {
		if bucket, ok := index[keyOf(utils.Day(inq.CreatedAt))]; ok {
			bucket.Inquiries++
		}
	}

	series := make([]PerformanceBucket, 0, len(keys))
	for _, k := range keys {
		series = append(series, *index[k])
	}
	return series, nil
}

// AgentPerformance is one agent's rollup across assigned properties.
type AgentPerformance struct {
	AgentID    uint   `json:"agentID"`
	AgentName  string `json:"agentName"`
	Properties int64  `json:"properties"`
	Views      int64  `json:"views"`
	Bookings   int64  `json:"bookings"`
	Downloads  int64  `json:"downloads"`
}

// AgentRollup totals the analytics counters over each agent's assigned
// properties. Agents with no assignments still get a zero row.
func AgentRollup(db *gorm.DB) ([]AgentPerformance, error) {
	var agents []models.User
	if err := db.Where("role = ?", models.RoleAgent).Order("id ASC").Find(&agents).Error; err != nil {
		return nil, err
	}

	rollups := make([]AgentPerformance, 0, len(agents))
	for _, agent := range agents {
		entry := AgentPerformance{AgentID: agent.ID, AgentName: agent.Name}

		if err := db.Model(&models.Property{}).
			Where("assigned_agent_id = ?", agent.ID).
			Count(&entry.Properties).Error; err != nil {
			return nil, err
		}

		var totals AnalyticsTotals
		err := db.Model(&models.DailyAnalytics{}).
			Joins("JOIN properties ON properties.id = daily_analytics.property_id AND properties.deleted_at IS NULL").
			Where("properties.assigned_agent_id = ?", agent.ID).
			Select("COALESCE(SUM(views), 0) AS views, COALESCE(SUM(bookings), 0) AS bookings, COALESCE(SUM(downloads), 0) AS downloads").
			Scan(&totals).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		entry.Views = totals.Views
		entry.Bookings = totals.Bookings
		entry.Downloads = totals.Downloads

		rollups = append(rollups, entry)
	}
	return rollups, nil
}
