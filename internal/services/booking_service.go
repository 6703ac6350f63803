package services

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rentwheels/internal/models"
)

var (
	ErrCarNotFound     = errors.New("car not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPriceMismatch   = errors.New("total amount does not match the quoted price")
)

// SettlementMode controls what status a booking is created with.
type SettlementMode string

const (
	// SettlementManual records bookings as paid at creation; real
	// settlement is confirmed by an operator out of band. This matches
	// the original storefront behavior.
	SettlementManual SettlementMode = "manual"
	// SettlementGateway creates pending bookings that only the payment
	// webhook or the confirm endpoint advance to paid.
	SettlementGateway SettlementMode = "gateway"
)

// BookingService owns the booking lifecycle: user resolution, booking
// and payment creation, and the mark-paid transition shared by the
// webhook and the success-page path.
type BookingService struct {
	db       *gorm.DB
	mode     SettlementMode
	currency string
}

func NewBookingService(db *gorm.DB, mode SettlementMode, currency string) *BookingService {
	if mode != SettlementGateway {
		mode = SettlementManual
	}
	if currency == "" {
		currency = "NGN"
	}
	return &BookingService{db: db, mode: mode, currency: currency}
}

type CreateBookingInput struct {
	CarCode        string
	PickupDate     time.Time
	ReturnDate     time.Time
	FullName       string
	Phone          string
	Email          string
	PickupLocation string
	// TotalAmount is the client-computed quote. It is checked against
	// the authoritative rate, never trusted.
	TotalAmount float64
	SessionID   string
}

type CreateBookingResult struct {
	Booking *models.Booking
	Payment *models.Payment
}

// CreateBooking resolves the customer identity, recomputes pricing from
// the car's stored daily rate, and inserts the booking and payment
// records. Only the booking insert is fatal; the payment insert and the
// session patch are best-effort, trading consistency for availability.
func (s *BookingService) CreateBooking(in CreateBookingInput) (*CreateBookingResult, error) {
	var car models.Car
	err := s.db.Where("code = ? AND status = ?", in.CarCode, models.CarStatusActive).First(&car).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up car: %w", err)
	}

	days := RentalDays(in.PickupDate, in.ReturnDate)
	total := float64(days) * car.DailyRate
	// Charge what was quoted: a client total that disagrees with the
	// authoritative rate is rejected, not corrected silently.
	if math.Abs(in.TotalAmount-total) > 0.01 {
		return nil, ErrPriceMismatch
	}

	user, err := s.resolveUser(in)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	now := time.Now()
	orderID := NewOrderID(now)
	paymentRef := NewPaymentReference(now)

	bookingStatus := models.BookingStatusPending
	bookingPayStatus := models.BookingPaymentPending
	paymentStatus := models.PaymentStatusPending
	provider := models.PaymentProviderPaystack
	var paidAt *time.Time
	if s.mode == SettlementManual {
		bookingStatus = models.BookingStatusConfirmed
		bookingPayStatus = models.BookingPaymentPaid
		paymentStatus = models.PaymentStatusSuccess
		provider = models.PaymentProviderManual
		paidAt = &now
	}

	booking := models.Booking{
		OrderID:          orderID,
		UUID:             uuid.NewString(),
		UserID:           user.ID,
		CarID:            car.ID,
		PickupDate:       in.PickupDate,
		ReturnDate:       in.ReturnDate,
		PickupLocation:   in.PickupLocation,
		Days:             days,
		DailyRate:        car.DailyRate,
		TotalAmount:      total,
		DepositAmount:    total,
		BalanceAmount:    0,
		BookingStatus:    bookingStatus,
		PaymentStatus:    bookingPayStatus,
		PaymentReference: paymentRef,
	}
	if err := s.db.Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	payment := models.Payment{
		Reference: paymentRef,
		OrderID:   orderID,
		Amount:    total,
		Currency:  s.currency,
		Status:    paymentStatus,
		Provider:  provider,
		PaidAt:    paidAt,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		// The booking is committed regardless; a missing payment row is
		// reconciled later by the webhook path.
		log.Printf("Failed to record payment for order %s: %v", orderID, err)
	}

	if in.SessionID != "" {
		if err := s.markSessionBooked(in.SessionID, &booking); err != nil {
			log.Printf("Failed to update session %s for order %s: %v", in.SessionID, orderID, err)
		}
	}

	return &CreateBookingResult{Booking: &booking, Payment: &payment}, nil
}

// resolveUser finds or creates the customer row. Precedence: identity
// key (session id, or the phone string when no session id was sent),
// then phone number, then insert. A uniqueness conflict on insert means
// a concurrent request won the race; the existing row is adopted.
func (s *BookingService) resolveUser(in CreateBookingInput) (*models.User, error) {
	identityKey := in.SessionID
	if identityKey == "" {
		identityKey = in.Phone
	}

	var user models.User
	err := s.db.Where("external_session_id = ?", identityKey).First(&user).Error
	if err == nil {
		user.Name = in.FullName
		user.Phone = in.Phone
		if in.Email != "" {
			user.Email = in.Email
		}
		if err := s.db.Save(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.db.Where("phone = ?", in.Phone).First(&user).Error
	if err == nil {
		// Phone-matched user adopts the new identity key
		user.Name = in.FullName
		if in.Email != "" {
			user.Email = in.Email
		}
		user.ExternalSessionID = &identityKey
		if err := s.db.Save(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		Name:              in.FullName,
		Phone:             in.Phone,
		Email:             in.Email,
		ExternalSessionID: &identityKey,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.User
			if err2 := s.db.Where("external_session_id = ?", identityKey).First(&existing).Error; err2 == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &user, nil
}

// MarkPaid is the single settlement transition, callable from both the
// webhook and the success-page confirm path. It only advances from
// unpaid to paid and never regresses; repeat calls are no-ops. The
// three writes (payment, booking, session) are independent and
// best-effort once the payment row is located.
func (s *BookingService) MarkPaid(reference, providerRef string, paidAt time.Time, sessionID string) (*models.Booking, error) {
	var payment models.Payment
	err := s.db.Where("reference = ?", reference).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}

	if payment.Status != models.PaymentStatusSuccess {
		payment.Status = models.PaymentStatusSuccess
		payment.PaidAt = &paidAt
		if providerRef != "" {
			payment.ProviderReference = providerRef
		}
		if err := s.db.Save(&payment).Error; err != nil {
			log.Printf("Failed to mark payment %s paid: %v", reference, err)
		}
	}

	var booking models.Booking
	err = s.db.Where("payment_reference = ?", reference).First(&booking).Error
	if err != nil {
		log.Printf("No booking found for payment reference %s: %v", reference, err)
		return nil, nil
	}
	if booking.PaymentStatus != models.BookingPaymentPaid {
		booking.PaymentStatus = models.BookingPaymentPaid
		booking.BookingStatus = models.BookingStatusConfirmed
		if err := s.db.Save(&booking).Error; err != nil {
			log.Printf("Failed to mark booking %s paid: %v", booking.OrderID, err)
		}
	}

	if sessionID != "" {
		if err := s.markSessionBooked(sessionID, &booking); err != nil {
			log.Printf("Failed to patch session %s for order %s: %v", sessionID, booking.OrderID, err)
		}
	}

	return &booking, nil
}

// GetBookingByOrderID fetches a booking with its car and user for the
// receipt pages.
func (s *BookingService) GetBookingByOrderID(orderID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("Car").Preload("User").Where("order_id = ?", orderID).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// markSessionBooked attaches booking metadata to the originating chat
// session and moves it to BOOKED. The transition is forward-only: a
// session already at BOOKED keeps its state.
func (s *BookingService) markSessionBooked(externalID string, booking *models.Booking) error {
	data, err := json.Marshal(map[string]interface{}{
		"status":       string(models.SessionStateBooked),
		"order_id":     booking.OrderID,
		"booking_uuid": booking.UUID,
		"total_amount": booking.TotalAmount,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	var session models.Session
	err = s.db.Where("external_id = ?", externalID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = models.Session{
			ExternalID:     externalID,
			State:          models.SessionStateBooked,
			Data:           data,
			LastActivityAt: now,
		}
		return s.db.Create(&session).Error
	}
	if err != nil {
		return err
	}

	session.State = models.SessionStateBooked
	session.Data = data
	session.LastActivityAt = now
	return s.db.Save(&session).Error
}

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomBase36(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble
		panic(fmt.Sprintf("randomBase36: %v", err))
	}
	for i, b := range buf {
		buf[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(buf)
}

// NewOrderID returns an order id of the form ORD-<YYYYMMDD>-<XXXXXX>.
// Ids are generated per attempt, not database-sequenced.
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), randomBase36(6))
}

// NewPaymentReference returns a reference of the form
// PAY-<epoch millis>-<XXXXXXXXX>.
func NewPaymentReference(now time.Time) string {
	return fmt.Sprintf("PAY-%d-%s", now.UnixMilli(), randomBase36(9))
}

// RentalDays is the whole-day span between pickup and return: the
// ceiling of the difference, never less than one.
func RentalDays(pickup, ret time.Time) int {
	days := int(math.Ceil(ret.Sub(pickup).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
