package handlers

// CreateBookingRequest is the wizard's final submission. Dates are
// "YYYY-MM-DD". Days and totals are the client's computation and are
// re-derived server-side before anything is stored.
type CreateBookingRequest struct {
	CarID          string  `json:"car_id"`
	PickupDate     string  `json:"pickup_date"`
	ReturnDate     string  `json:"return_date"`
	FullName       string  `json:"full_name"`
	PhoneNumber    string  `json:"phone_number"`
	Email          string  `json:"email"`
	PickupLocation string  `json:"pickup_location"`
	Days           int     `json:"days"`
	DailyRate      float64 `json:"daily_rate"`
	TotalAmount    float64 `json:"total_amount"`
	SessionID      string  `json:"sessionId"`
}

type CreateBookingResponse struct {
	Success          bool   `json:"success"`
	BookingID        uint   `json:"booking_id"`
	OrderID          string `json:"order_id"`
	PaymentReference string `json:"payment_reference"`
}

type InitializePaymentRequest struct {
	Email    string                 `json:"email"`
	Amount   float64                `json:"amount"`
	Metadata map[string]interface{} `json:"metadata"`
}

type ConfirmPaymentRequest struct {
	Reference string `json:"reference"`
}

type SendNotificationRequest struct {
	Message string `json:"message"`
}
