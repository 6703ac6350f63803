package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"rentwheels/internal/services"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	bookings *services.BookingService
}

func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateBooking handles the wizard's final submission
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	if req.CarID == "" || req.PickupDate == "" || req.ReturnDate == "" ||
		req.FullName == "" || req.PhoneNumber == "" || req.PickupLocation == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	pickup, err := time.Parse(dateLayout, req.PickupDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid pickup date")
	}
	ret, err := time.Parse(dateLayout, req.ReturnDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid return date")
	}
	if ret.Before(pickup) {
		return echo.NewHTTPError(http.StatusBadRequest, "Return date must not be before pickup date")
	}

	result, err := h.bookings.CreateBooking(services.CreateBookingInput{
		CarCode:        req.CarID,
		PickupDate:     pickup,
		ReturnDate:     ret,
		FullName:       req.FullName,
		Phone:          req.PhoneNumber,
		Email:          req.Email,
		PickupLocation: req.PickupLocation,
		TotalAmount:    req.TotalAmount,
		SessionID:      req.SessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCarNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Car not found")
		case errors.Is(err, services.ErrPriceMismatch):
			return echo.NewHTTPError(http.StatusBadRequest, "Total amount does not match the quoted price")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create booking: "+err.Error())
		}
	}

	return c.JSON(http.StatusOK, CreateBookingResponse{
		Success:          true,
		BookingID:        result.Booking.ID,
		OrderID:          result.Booking.OrderID,
		PaymentReference: result.Booking.PaymentReference,
	})
}

// GetBooking serves the receipt lookup for the success/failure pages
func (h *BookingHandler) GetBooking(c echo.Context) error {
	orderID := c.Param("order_id")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing order id")
	}

	booking, err := h.bookings.GetBookingByOrderID(orderID)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Booking not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch booking")
	}

	return c.JSON(http.StatusOK, booking)
}
