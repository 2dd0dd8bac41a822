package payment

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/models"
	"ms-busbooking/internal/utils"

	"github.com/go-playground/validator/v10"
)

var (
	ErrCardValidationFailed = errors.New("card validation failed")
	ErrEmptyBooking         = errors.New("booking has no seats")
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{4} \d{4} \d{4} \d{4}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/?([0-9]{2})$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
)

// Card is the card form submitted at checkout.
type Card struct {
	Name   string `json:"name" validate:"required"`
	Number string `json:"number" validate:"required,cardnumber"`
	Expiry string `json:"expiry" validate:"required,cardexpiry"`
	CVV    string `json:"cvv" validate:"required,cvv"`
}

var (
	cardValidatorOnce sync.Once
	cardValidator     *validator.Validate
)

func cardValidate() *validator.Validate {
	cardValidatorOnce.Do(func() {
		cardValidator = validator.New()
		register := func(tag string, re *regexp.Regexp) {
			_ = cardValidator.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return re.MatchString(fl.Field().String())
			})
		}
		register("cardnumber", cardNumberPattern)
		register("cardexpiry", expiryPattern)
		register("cvv", cvvPattern)
	})
	return cardValidator
}

var cardMessages = map[string]string{
	"Name":   "Cardholder Name is required",
	"Number": "Must be 16 digits formatted as 0000 0000 0000 0000",
	"Expiry": "Invalid date format (MM/YY)",
	"CVV":    "CVV must be 3 digits",
}

// ValidationError lists a message per rejected card field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %d field(s) rejected", ErrCardValidationFailed, len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrCardValidationFailed }

// ValidateCard checks the card form. It never contacts a processor.
func ValidateCard(card Card) error {
	err := cardValidate().Struct(card)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = cardMessages[fe.Field()]
	}
	return &ValidationError{Fields: fields}
}

// Service is the simulated payment processor.
type Service struct {
	Delay  time.Duration
	Now    func() time.Time
	NewID  func() string
	Logger *logger.Logger
}

func NewService(delay time.Duration, log *logger.Logger) *Service {
	return &Service{
		Delay:  delay,
		Now:    time.Now,
		NewID:  utils.GeneratePaymentID,
		Logger: log,
	}
}

// Charge validates the card, waits out the processing delay and returns the
// booking finalised as Confirmed and Paid. On any failure the booking is
// returned untouched with the error.
func (s *Service) Charge(ctx context.Context, card Card, booking models.Booking) (models.Booking, error) {
	if len(booking.SeatsBooked) == 0 {
		return booking, ErrEmptyBooking
	}
	if err := ValidateCard(card); err != nil {
		s.Logger.Warn("PAYMENT", fmt.Sprintf("Card rejected for schedule %s: %v", booking.ScheduleID, err))
		return booking, err
	}

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return booking, ctx.Err()
		case <-timer.C:
		}
	}

	paidAt := s.Now().UTC()
	final := booking
	final.Status = models.BookingConfirmed
	final.PaymentStatus = models.PaymentPaid
	final.PaymentID = s.NewID()
	final.BookedAt = &paidAt

	s.Logger.Info("PAYMENT", fmt.Sprintf("Payment %s captured: %d for %d seat(s)", final.PaymentID, final.TotalFare, len(final.SeatsBooked)))
	return final, nil
}
