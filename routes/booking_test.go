package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tntanvir/eastmondvillas/models"
	"github.com/tntanvir/eastmondvillas/storage"
	"github.com/tntanvir/eastmondvillas/utils"
)

// buildTestApp wires the booking and availability routes against an
// in-memory database.
func buildTestApp(t *testing.T) *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Booking{},
		&models.DailyAnalytics{},
		&models.Inquiry{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	storage.DB = db

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	properties := app.Party("/api/properties")
	{
		properties.Get("/", utils.OptionalAccessMiddleware(accessTokenVerifier), ListProperties)
		properties.Get("/{id:uint}/availability", GetPropertyAvailability)
	}
	bookings := app.Party("/api/bookings", accessTokenVerifierMiddleware)
	{
		bookings.Post("/", CreateBooking)
		bookings.Patch("/{id:uint}/status", UpdateBookingStatus)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func signTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func seedTestProperty(t *testing.T) *models.Property {
	property := models.Property{Title: "Villa Test", Status: models.PropertyStatusPublished, Price: 300}
	if err := storage.DB.Create(&property).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return &property
}

func doJSON(app *iris.Application, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func futureDay(daysAhead int) string {
	return time.Now().UTC().AddDate(0, 0, daysAhead).Format(utils.DayFormat)
}

func TestCreateBookingRequiresToken(t *testing.T) {
	app := buildTestApp(t)
	property := seedTestProperty(t)

	resp := doJSON(app, http.MethodPost, "/api/bookings", "", iris.Map{
		"propertyID": property.ID,
		"fullName":   "Jane Walker",
		"email":      "jane@example.com",
		"checkIn":    futureDay(10),
		"checkOut":   futureDay(15),
	})
	if resp.Code == http.StatusCreated {
		t.Fatalf("expected failure without token, got %d", resp.Code)
	}
}

func TestBookingStatusRBAC(t *testing.T) {
	app := buildTestApp(t)
	property := seedTestProperty(t)

	customer := models.User{Name: "Cust", Email: "cust@example.com", Role: models.RoleCustomer}
	manager := models.User{Name: "Mgr", Email: "mgr@example.com", Role: models.RoleManager}
	storage.DB.Create(&customer)
	storage.DB.Create(&manager)

	// customer creates a booking: starts pending
	resp := doJSON(app, http.MethodPost, "/api/bookings", signTestToken(customer.ID, customer.Role), iris.Map{
		"propertyID": property.ID,
		"fullName":   "Jane Walker",
		"email":      "jane@example.com",
		"checkIn":    futureDay(10),
		"checkOut":   futureDay(15),
		"totalPrice": 1500,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating booking, got %d: %s", resp.Code, resp.Body.String())
	}
	var created models.Booking
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if created.Status != models.BookingStatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}

	url := "/api/bookings/" + uintString(created.ID) + "/status"

	// the requester may not approve their own booking
	resp = doJSON(app, http.MethodPatch, url, signTestToken(customer.ID, customer.Role), iris.Map{"status": "approved"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", resp.Code)
	}

	// unknown status is refused
	resp = doJSON(app, http.MethodPatch, url, signTestToken(manager.ID, manager.Role), iris.Map{"status": "confirmed"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown status, got %d", resp.Code)
	}

	// manager approves
	resp = doJSON(app, http.MethodPatch, url, signTestToken(manager.ID, manager.Role), iris.Map{"status": "approved"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 approving, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAvailabilityRoundTrip(t *testing.T) {
	app := buildTestApp(t)
	property := seedTestProperty(t)

	manager := models.User{Name: "Mgr", Email: "mgr2@example.com", Role: models.RoleManager}
	customer := models.User{Name: "Cust", Email: "cust2@example.com", Role: models.RoleCustomer}
	storage.DB.Create(&manager)
	storage.DB.Create(&customer)

	checkIn := time.Now().UTC().AddDate(0, 1, 0)
	checkInStr := time.Date(checkIn.Year(), checkIn.Month(), 10, 0, 0, 0, 0, time.UTC).Format(utils.DayFormat)
	checkOutStr := time.Date(checkIn.Year(), checkIn.Month(), 15, 0, 0, 0, 0, time.UTC).Format(utils.DayFormat)
	availURL := "/api/properties/" + uintString(property.ID) + "/availability?month=" +
		uintString(uint(checkIn.Month())) + "&year=" + uintString(uint(checkIn.Year()))

	resp := doJSON(app, http.MethodPost, "/api/bookings", signTestToken(customer.ID, customer.Role), iris.Map{
		"propertyID": property.ID,
		"fullName":   "Jane Walker",
		"email":      "jane@example.com",
		"checkIn":    checkInStr,
		"checkOut":   checkOutStr,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created models.Booking
	json.Unmarshal(resp.Body.Bytes(), &created)

	// pending booking: month shows no booked ranges
	resp = doJSON(app, http.MethodGet, availURL, "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var availability struct {
		Booked []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"booked"`
	}
	json.Unmarshal(resp.Body.Bytes(), &availability)
	if len(availability.Booked) != 0 {
		t.Fatalf("expected no booked ranges before approval, got %d", len(availability.Booked))
	}

	// approve, then the range appears
	resp = doJSON(app, http.MethodPatch, "/api/bookings/"+uintString(created.ID)+"/status",
		signTestToken(manager.ID, manager.Role), iris.Map{"status": "approved"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 approving, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(app, http.MethodGet, availURL, "", nil)
	json.Unmarshal(resp.Body.Bytes(), &availability)
	if len(availability.Booked) != 1 {
		t.Fatalf("expected one booked range after approval, got %d", len(availability.Booked))
	}
	if availability.Booked[0].Start != checkInStr || availability.Booked[0].End != checkOutStr {
		t.Fatalf("unexpected booked range %+v", availability.Booked[0])
	}
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
