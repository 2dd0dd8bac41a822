package payment

import (
	"context"
	"testing"
	"time"

	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var goodCard = Card{Name: "Demo User", Number: "4242 4242 4242 4242", Expiry: "12/30", CVV: "123"}

func TestValidateCard(t *testing.T) {
	require.NoError(t, ValidateCard(goodCard))
	require.NoError(t, ValidateCard(Card{Name: "A", Number: "4242 4242 4242 4242", Expiry: "0130", CVV: "999"}))

	err := ValidateCard(Card{Number: "4242424242424242", Expiry: "13/30", CVV: "12"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrCardValidationFailed)
	assert.Len(t, verr.Fields, 4)
	assert.Equal(t, "CVV must be 3 digits", verr.Fields["CVV"])
	assert.Equal(t, "Invalid date format (MM/YY)", verr.Fields["Expiry"])
}

func newService() *Service {
	s := NewService(0, logger.NewWriterLogger(nil))
	s.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	s.NewID = func() string { return "PAY_1" }
	return s
}

func TestCharge_Finalises(t *testing.T) {
	booking := models.Booking{ScheduleID: "SCD1", SeatsBooked: []string{"1A"}, TotalFare: 1000}

	final, err := newService().Charge(context.Background(), goodCard, booking)

	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, final.Status)
	assert.Equal(t, models.PaymentPaid, final.PaymentStatus)
	assert.Equal(t, "PAY_1", final.PaymentID)
	require.NotNil(t, final.BookedAt)
	assert.Equal(t, 2026, final.BookedAt.Year())
	assert.Empty(t, booking.PaymentID)
}

func TestCharge_Rejected(t *testing.T) {
	booking := models.Booking{ScheduleID: "SCD1", SeatsBooked: []string{"1A"}}

	final, err := newService().Charge(context.Background(), Card{Name: "x"}, booking)
	assert.ErrorIs(t, err, ErrCardValidationFailed)
	assert.Equal(t, booking, final)

	_, err = newService().Charge(context.Background(), goodCard, models.Booking{ScheduleID: "SCD1"})
	assert.ErrorIs(t, err, ErrEmptyBooking)
}

func TestCharge_ContextCancelledDuringDelay(t *testing.T) {
	s := newService()
	s.Delay = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Charge(ctx, goodCard, models.Booking{ScheduleID: "SCD1", SeatsBooked: []string{"1A"}})

	assert.ErrorIs(t, err, context.Canceled)
}
