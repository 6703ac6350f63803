package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"rentwheels/internal/models"
	"rentwheels/internal/services"
)

type PaymentHandler struct {
	db       *gorm.DB
	gateway  *services.PaystackService
	bookings *services.BookingService
	appURL   string
}

// NewPaymentHandler wires the payment endpoints. gateway may be nil
// when no credentials are configured; the endpoints then answer 503.
func NewPaymentHandler(db *gorm.DB, gateway *services.PaystackService, bookings *services.BookingService, appURL string) *PaymentHandler {
	return &PaymentHandler{db: db, gateway: gateway, bookings: bookings, appURL: appURL}
}

func (h *PaymentHandler) gatewayError(err error) error {
	var pe *services.PaystackError
	if errors.As(err, &pe) {
		return echo.NewHTTPError(pe.StatusCode, pe.Message)
	}
	return echo.NewHTTPError(http.StatusBadGateway, "Payment gateway request failed: "+err.Error())
}

// InitializePayment asks the gateway to start a hosted checkout and
// returns its redirect handle verbatim.
func (h *PaymentHandler) InitializePayment(c echo.Context) error {
	if h.gateway == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Payment gateway is not configured")
	}

	var req InitializePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.Email == "" || req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	callbackURL := h.appURL + "/booking/success"
	result, err := h.gateway.InitializeTransaction(c.Request().Context(), req.Email, req.Amount, callbackURL, req.Metadata)
	if err != nil {
		return h.gatewayError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// VerifyPayment is a read-through to the gateway's verify endpoint
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	if h.gateway == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Payment gateway is not configured")
	}

	reference := c.QueryParam("reference")
	if reference == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing transaction reference")
	}

	result, err := h.gateway.VerifyTransaction(c.Request().Context(), reference)
	if err != nil {
		return h.gatewayError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// ConfirmPayment is the success-page settlement path: verify the
// transaction with the gateway, then apply the same idempotent
// mark-paid transition the webhook uses.
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	if h.gateway == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Payment gateway is not configured")
	}

	var req ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.Reference == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing transaction reference")
	}

	result, err := h.gateway.VerifyTransaction(c.Request().Context(), req.Reference)
	if err != nil {
		return h.gatewayError(err)
	}

	if result.Status != "success" {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": false,
			"status":  result.Status,
		})
	}

	booking, err := h.bookings.MarkPaid(req.Reference, result.Reference, parsePaidAt(result.PaidAt), result.Metadata.CorrelationID())
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Payment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to confirm payment")
	}

	resp := map[string]interface{}{"success": true, "status": result.Status}
	if booking != nil {
		resp["order_id"] = booking.OrderID
		resp["booking_status"] = booking.BookingStatus
		resp["payment_status"] = booking.PaymentStatus
	}
	return c.JSON(http.StatusOK, resp)
}

// Webhook handles asynchronous gateway callbacks. Once the signature
// checks out the response is always 200 {"received":true}: failing
// would only trigger provider retry storms, so partial reconciliation
// failures are logged instead.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	if h.gateway == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Payment gateway is not configured")
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unable to read request body")
	}

	signature := c.Request().Header.Get("x-paystack-signature")
	if !h.gateway.VerifyWebhookSignature(body, signature) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid webhook signature")
	}

	var event services.WebhookPayload
	if err := json.Unmarshal(body, &event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	record := models.WebhookEvent{
		Provider:       string(models.PaymentProviderPaystack),
		EventType:      event.Event,
		Payload:        body,
		SignatureValid: true,
	}
	if err := h.db.Create(&record).Error; err != nil {
		log.Printf("Failed to store webhook event: %v", err)
	}

	if event.Event == "charge.success" {
		sessionID := event.Data.Metadata.CorrelationID()
		_, err := h.bookings.MarkPaid(event.Data.Reference, event.Data.Reference, parsePaidAt(event.Data.PaidAt), sessionID)
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			// The webhook can outrun the creation path; acknowledge and
			// let a later delivery or the confirm path reconcile.
			log.Printf("Webhook for unknown payment reference %s, acknowledging", event.Data.Reference)
		case err != nil:
			log.Printf("Failed to reconcile webhook for %s: %v", event.Data.Reference, err)
		default:
			if record.ID != 0 {
				now := time.Now()
				record.ProcessedAt = &now
				if err := h.db.Save(&record).Error; err != nil {
					log.Printf("Failed to mark webhook event processed: %v", err)
				}
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

func parsePaidAt(value string) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Now()
}
