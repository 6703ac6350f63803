package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appmw "rentwheels/internal/middleware"
	"rentwheels/internal/models"
	"rentwheels/internal/services"
)

type testEnv struct {
	e        *echo.Echo
	db       *gorm.DB
	bookings *services.BookingService
}

func setupEnv(t *testing.T, mode services.SettlementMode, gateway *services.PaystackService) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, services.AutoMigrate(db))

	bookings := services.NewBookingService(db, mode, "NGN")

	e := echo.New()
	e.HTTPErrorHandler = appmw.JSONErrorHandler

	bookingHandler := NewBookingHandler(bookings)
	paymentHandler := NewPaymentHandler(db, gateway, bookings, "http://localhost:8080")

	api := e.Group("/api")
	api.POST("/bookings", bookingHandler.CreateBooking)
	api.GET("/bookings/:order_id", bookingHandler.GetBooking)
	api.POST("/payments/initialize", paymentHandler.InitializePayment)
	api.GET("/payments/verify", paymentHandler.VerifyPayment)
	api.POST("/payments/confirm", paymentHandler.ConfirmPayment)
	api.POST("/payments/webhook", paymentHandler.Webhook)

	return &testEnv{e: e, db: db, bookings: bookings}
}

func (env *testEnv) seedCar(t *testing.T, code string, rate float64) {
	t.Helper()
	car := models.Car{Code: code, Name: "Toyota Corolla", DailyRate: rate, Status: models.CarStatusActive}
	require.NoError(t, env.db.Create(&car).Error)
}

func httpDo(e *echo.Echo, method, path string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func validBookingRequest() map[string]interface{} {
	return map[string]interface{}{
		"car_id":          "CAR-001",
		"pickup_date":     "2024-01-01",
		"return_date":     "2024-01-03",
		"full_name":       "Ada Obi",
		"phone_number":    "08031234567",
		"email":           "ada@example.com",
		"pickup_location": "Lagos Airport",
		"days":            2,
		"daily_rate":      200,
		"total_amount":    400,
	}
}

func TestCreateBookingMissingField(t *testing.T) {
	env := setupEnv(t, services.SettlementManual, nil)
	env.seedCar(t, "CAR-001", 200)

	req := validBookingRequest()
	delete(req, "pickup_location")

	w := httpDo(env.e, http.MethodPost, "/api/bookings", req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Missing required fields", resp["error"])
}

func TestCreateBookingUnknownCar(t *testing.T) {
	env := setupEnv(t, services.SettlementManual, nil)

	req := validBookingRequest()
	req["car_id"] = "CAR-404"

	w := httpDo(env.e, http.MethodPost, "/api/bookings", req)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Car not found", resp["error"])
}

func TestCreateBookingPriceMismatch(t *testing.T) {
	env := setupEnv(t, services.SettlementManual, nil)
	env.seedCar(t, "CAR-001", 200)

	req := validBookingRequest()
	req["total_amount"] = 250

	w := httpDo(env.e, http.MethodPost, "/api/bookings", req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingReturnBeforePickup(t *testing.T) {
	env := setupEnv(t, services.SettlementManual, nil)
	env.seedCar(t, "CAR-001", 200)

	req := validBookingRequest()
	req["pickup_date"] = "2024-01-05"
	req["return_date"] = "2024-01-03"

	w := httpDo(env.e, http.MethodPost, "/api/bookings", req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingAndFetchReceipt(t *testing.T) {
	env := setupEnv(t, services.SettlementManual, nil)
	env.seedCar(t, "CAR-001", 200)

	w := httpDo(env.e, http.MethodPost, "/api/bookings", validBookingRequest())
	require.Equal(t, http.StatusOK, w.Code)

	var created CreateBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.True(t, created.Success)
	require.NotZero(t, created.BookingID)
	require.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-Z]{6}$`), created.OrderID)
	require.Regexp(t, regexp.MustCompile(`^PAY-\d+-[0-9A-Z]{9}$`), created.PaymentReference)

	// The success page fetches the booking for the receipt
	w = httpDo(env.e, http.MethodGet, "/api/bookings/"+created.OrderID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	require.Equal(t, created.OrderID, booking.OrderID)
	require.Equal(t, "CAR-001", booking.Car.Code)
	require.Equal(t, 2, booking.Days)
	require.Equal(t, float64(400), booking.TotalAmount)
	require.Equal(t, models.BookingPaymentPaid, booking.PaymentStatus)
}

func TestGetBookingNotFound(t *testing.T) {
	env := setupEnv(t, services.SettlementManual, nil)

	w := httpDo(env.e, http.MethodGet, "/api/bookings/ORD-20240101-ZZZZZZ", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Booking not found", resp["error"])
}

func createBookingViaService(t *testing.T, env *testEnv, sessionID string) *services.CreateBookingResult {
	t.Helper()
	pickup, _ := time.Parse("2006-01-02", "2024-01-01")
	ret, _ := time.Parse("2006-01-02", "2024-01-03")
	result, err := env.bookings.CreateBooking(services.CreateBookingInput{
		CarCode:        "CAR-001",
		PickupDate:     pickup,
		ReturnDate:     ret,
		FullName:       "Ada Obi",
		Phone:          "08031234567",
		PickupLocation: "Lagos Airport",
		TotalAmount:    400,
		SessionID:      sessionID,
	})
	require.NoError(t, err)
	return result
}
