package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tntanvir/eastmondvillas/models"
)

func TestIncrementUpsert(t *testing.T) {
	db := setupTestDB(t)
	property := createTestProperty(t, db)

	// first increment creates the row lazily
	assert.NoError(t, Increment(db, property.ID, day("2025-06-01"), MetricViews))
	// further increments mutate the same row
	assert.NoError(t, Increment(db, property.ID, day("2025-06-01"), MetricViews))
	assert.NoError(t, Increment(db, property.ID, day("2025-06-01"), MetricViews))
	assert.NoError(t, Increment(db, property.ID, day("2025-06-01"), MetricDownloads))

	var rows []models.DailyAnalytics
	assert.NoError(t, db.Where("property_id = ?", property.ID).Find(&rows).Error)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].Views)
	assert.Equal(t, int64(1), rows[0].Downloads)
	assert.Equal(t, int64(0), rows[0].Bookings)

	// a different day gets its own row
	assert.NoError(t, Increment(db, property.ID, day("2025-06-02"), MetricViews))
	assert.NoError(t, db.Where("property_id = ?", property.ID).Find(&rows).Error)
	assert.Len(t, rows, 2)
}

func TestIncrementUnknownMetric(t *testing.T) {
	db := setupTestDB(t)
	property := createTestProperty(t, db)
	assert.Error(t, Increment(db, property.ID, day("2025-06-01"), Metric("clicks")))
}

func TestSummarize(t *testing.T) {
	db := setupTestDB(t)
	first := createTestProperty(t, db)
	second := createTestProperty(t, db)

	for i := 0; i < 3; i++ {
		assert.NoError(t, Increment(db, first.ID, day("2025-06-01"), MetricViews))
	}
	assert.NoError(t, Increment(db, first.ID, day("2025-06-03"), MetricBookings))
	assert.NoError(t, Increment(db, second.ID, day("2025-06-02"), MetricViews))

	// single property, inclusive range; missing days contribute zero
	totals, err := Summarize(db, &first.ID, day("2025-06-01"), day("2025-06-03"))
	assert.NoError(t, err)
	assert.Equal(t, int64(3), totals.Views)
	assert.Equal(t, int64(1), totals.Bookings)
	assert.Equal(t, int64(0), totals.Downloads)

	// all properties
	totals, err = Summarize(db, nil, day("2025-06-01"), day("2025-06-03"))
	assert.NoError(t, err)
	assert.Equal(t, int64(4), totals.Views)

	// range excluding the counted days
	totals, err = Summarize(db, &first.ID, day("2025-06-10"), day("2025-06-20"))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), totals.Views)
	assert.Equal(t, int64(0), totals.Bookings)
}

func TestPerformanceSeriesDailyGrouping(t *testing.T) {
	db := setupTestDB(t)
	property := createTestProperty(t, db)

	assert.NoError(t, Increment(db, property.ID, day("2025-06-01"), MetricViews))
	assert.NoError(t, Increment(db, property.ID, day("2025-06-01"), MetricViews))
	assert.NoError(t, Increment(db, property.ID, day("2025-06-03"), MetricDownloads))

	inquiry := models.Inquiry{Name: "Al", Email: "al@example.com", Message: "hi"}
	assert.NoError(t, db.Create(&inquiry).Error)
	assert.NoError(t, db.Model(&inquiry).Update("created_at", day("2025-06-02").Add(10*time.Hour)).Error)

	series, err := PerformanceSeries(db, day("2025-06-01"), day("2025-06-04"))
	assert.NoError(t, err)
	// one bucket per day, quiet days included
	assert.Len(t, series, 4)
	assert.Equal(t, "2025-06-01", series[0].Period)
	assert.Equal(t, int64(2), series[0].Views)
	assert.Equal(t, int64(1), series[1].Inquiries)
	assert.Equal(t, int64(1), series[2].Downloads)
	assert.Equal(t, int64(0), series[3].Views)
}

func TestPerformanceSeriesMonthlyGrouping(t *testing.T) {
	db := setupTestDB(t)
	property := createTestProperty(t, db)

	assert.NoError(t, Increment(db, property.ID, day("2025-01-15"), MetricViews))
	assert.NoError(t, Increment(db, property.ID, day("2025-03-10"), MetricViews))

	// 90 days is beyond the daily threshold, so periods are months
	series, err := PerformanceSeries(db, day("2025-01-01"), day("2025-03-31"))
	assert.NoError(t, err)
	assert.Len(t, series, 3)
	assert.Equal(t, "2025-01", series[0].Period)
	assert.Equal(t, int64(1), series[0].Views)
	assert.Equal(t, "2025-02", series[1].Period)
	assert.Equal(t, int64(0), series[1].Views)
	assert.Equal(t, "2025-03", series[2].Period)
	assert.Equal(t, int64(1), series[2].Views)
}

func TestPerformanceSeriesThresholdBoundary(t *testing.T) {
	db := setupTestDB(t)

	// exactly 60 days apart: still daily
	series, err := PerformanceSeries(db, day("2025-01-01"), day("2025-03-02"))
	assert.NoError(t, err)
	assert.Len(t, series, 61)
	assert.Equal(t, "2025-01-01", series[0].Period)

	// one further day tips into monthly
	series, err = PerformanceSeries(db, day("2025-01-01"), day("2025-03-03"))
	assert.NoError(t, err)
	assert.Len(t, series, 3)
	assert.Equal(t, "2025-01", series[0].Period)
}

func TestAgentRollup(t *testing.T) {
	db := setupTestDB(t)

	busy := models.User{Name: "Busy Agent", Email: "busy@example.com", Role: models.RoleAgent}
	idle := models.User{Name: "Idle Agent", Email: "idle@example.com", Role: models.RoleAgent}
	manager := models.User{Name: "Boss", Email: "boss@example.com", Role: models.RoleManager}
	assert.NoError(t, db.Create(&busy).Error)
	assert.NoError(t, db.Create(&idle).Error)
	assert.NoError(t, db.Create(&manager).Error)

	assigned := models.Property{Title: "Villa One", Status: models.PropertyStatusPublished, AssignedAgentID: &busy.ID}
	other := models.Property{Title: "Villa Two", Status: models.PropertyStatusPublished}
	assert.NoError(t, db.Create(&assigned).Error)
	assert.NoError(t, db.Create(&other).Error)

	assert.NoError(t, Increment(db, assigned.ID, day("2025-06-01"), MetricViews))
	assert.NoError(t, Increment(db, assigned.ID, day("2025-06-01"), MetricBookings))
	assert.NoError(t, Increment(db, other.ID, day("2025-06-01"), MetricViews))

	rollups, err := AgentRollup(db)
	assert.NoError(t, err)
	// managers are not agents; agents with no properties still report zeros
	assert.Len(t, rollups, 2)

	assert.Equal(t, busy.ID, rollups[0].AgentID)
	assert.Equal(t, int64(1), rollups[0].Properties)
	assert.Equal(t, int64(1), rollups[0].Views)
	assert.Equal(t, int64(1), rollups[0].Bookings)

	assert.Equal(t, idle.ID, rollups[1].AgentID)
	assert.Equal(t, int64(0), rollups[1].Properties)
	assert.Equal(t, int64(0), rollups[1].Views)
	assert.Equal(t, int64(0), rollups[1].Bookings)
}
