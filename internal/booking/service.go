package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"ms-busbooking/internal/analytics"
	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/models"
	"ms-busbooking/internal/payment"
	"ms-busbooking/internal/repository"
	"ms-busbooking/internal/tickets/qr"
	"ms-busbooking/internal/utils"
)

// DefaultMaxSeats caps the seats of one booking when the service is built
// with a zero limit.
const DefaultMaxSeats = 6

var (
	ErrNoSeats          = errors.New("select at least one seat")
	ErrTooManySeats     = errors.New("too many seats in one booking")
	ErrUnknownSeat      = errors.New("seat does not exist on this bus")
	ErrSeatsHeld        = errors.New("seats are held by another checkout")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrPassengerSeat    = errors.New("passenger seat is not part of the booking")
	ErrPassesDisabled   = errors.New("boarding passes are not configured")
	ErrPassMismatch     = errors.New("boarding pass does not match the booking")
)

type Store interface {
	Snapshot() models.Snapshot
	Schedule(id string) (models.Schedule, bool)
	Booking(id string) (models.Booking, bool)
	Customer(id string) (models.Customer, bool)
	UpdateBooking(ctx context.Context, b models.Booking) (string, error)
	CancelBooking(ctx context.Context, id string) error
}

type SeatHolder interface {
	Hold(ctx context.Context, scheduleID string, seats []string, holdID string) (bool, error)
	Release(ctx context.Context, scheduleID string, seats []string, holdID string) error
	HeldBy(ctx context.Context, scheduleID string, seats []string, holdID string) ([]string, error)
}

type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, b models.Booking) error
	PublishBookingCancelled(ctx context.Context, b models.Booking) error
}

type PaymentProcessor interface {
	Charge(ctx context.Context, card payment.Card, b models.Booking) (models.Booking, error)
}

type PassRenderer interface {
	GeneratePNG(pass qr.BoardingPass) ([]byte, error)
	Token(pass qr.BoardingPass) (string, error)
	Decode(token string) (qr.BoardingPass, error)
}

// Service runs the seat-selection to confirmation flow. Holds and Events are
// optional; without them seats are not reserved ahead of payment and no
// events are streamed.
type Service struct {
	Store    Store
	Holds    SeatHolder
	Events   EventPublisher
	Payments PaymentProcessor
	Passes   PassRenderer
	MaxSeats int
	HoldTTL  time.Duration
	Logger   *logger.Logger
}

type Hold struct {
	ID         string    `json:"holdId"`
	ScheduleID string    `json:"scheduleId"`
	Seats      []string  `json:"seats"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type CheckoutRequest struct {
	HoldID     string             `json:"holdId"`
	ScheduleID string             `json:"scheduleId" validate:"required"`
	CustomerID string             `json:"customerId"`
	Seats      []string           `json:"seats" validate:"required,min=1"`
	Passengers []models.Passenger `json:"passengers" validate:"dive"`
	Card       payment.Card       `json:"card" validate:"-"`
}

// Receipt is returned for a confirmed booking.
type Receipt struct {
	Booking     models.Booking `json:"booking"`
	TicketFare  int            `json:"ticketFare"`
	QRCode      []byte         `json:"qrCode,omitempty"`
	TicketToken string         `json:"ticketToken,omitempty"`
}

func (s *Service) maxSeats() int {
	if s.MaxSeats <= 0 {
		return DefaultMaxSeats
	}
	return s.MaxSeats
}

// checkSeats verifies seats against the bus layout and the active bookings of
// the schedule.
func (s *Service) checkSeats(snap models.Snapshot, schedule models.Schedule, seats []string) error {
	if len(seats) == 0 {
		return ErrNoSeats
	}
	if len(seats) > s.maxSeats() {
		return fmt.Errorf("%w: %d requested, at most %d", ErrTooManySeats, len(seats), s.maxSeats())
	}

	layout := analytics.SeatLabels(analytics.Capacity(snap, schedule))
	booked := analytics.BookedSeats(snap, schedule.ScheduleID)
	var taken []string
	for _, seat := range seats {
		if !slices.Contains(layout, seat) {
			return fmt.Errorf("%w: %s", ErrUnknownSeat, seat)
		}
		if slices.Contains(booked, seat) {
			taken = append(taken, seat)
		}
	}
	if len(taken) > 0 {
		return &SeatsTakenError{ScheduleID: schedule.ScheduleID, Seats: taken}
	}
	return nil
}

// HoldSeats reserves seats for a checkout. An empty holdID starts a new hold;
// passing an existing one extends it.
func (s *Service) HoldSeats(ctx context.Context, scheduleID string, seats []string, holdID string) (Hold, error) {
	schedule, ok := s.Store.Schedule(scheduleID)
	if !ok {
		return Hold{}, fmt.Errorf("%w: %s", ErrScheduleNotFound, scheduleID)
	}
	if err := s.checkSeats(s.Store.Snapshot(), schedule, seats); err != nil {
		return Hold{}, err
	}
	if holdID == "" {
		holdID = utils.GenerateHoldID()
	}

	hold := Hold{ID: holdID, ScheduleID: scheduleID, Seats: seats, ExpiresAt: time.Now().Add(s.HoldTTL)}
	if s.Holds == nil {
		return hold, nil
	}

	ok, err := s.Holds.Hold(ctx, scheduleID, seats, holdID)
	if err != nil {
		return Hold{}, fmt.Errorf("seat hold failed: %w", err)
	}
	if !ok {
		return Hold{}, s.heldElsewhere(ctx, scheduleID, seats, holdID)
	}
	s.Logger.LogBooking("HOLD", holdID, fmt.Sprintf("%s seats %s", scheduleID, strings.Join(seats, ",")))
	return hold, nil
}

// heldElsewhere names the seats another checkout holds, for the caller to
// pick different ones.
func (s *Service) heldElsewhere(ctx context.Context, scheduleID string, seats []string, holdID string) error {
	held, err := s.Holds.HeldBy(ctx, scheduleID, seats, holdID)
	if err != nil {
		s.Logger.Warn("BOOKING", fmt.Sprintf("Could not list held seats on %s: %v", scheduleID, err))
		return ErrSeatsHeld
	}
	return &SeatsHeldError{ScheduleID: scheduleID, Seats: held}
}

// ReleaseHold gives up a hold before checkout.
func (s *Service) ReleaseHold(ctx context.Context, scheduleID string, seats []string, holdID string) error {
	if s.Holds == nil {
		return nil
	}
	return s.Holds.Release(ctx, scheduleID, seats, holdID)
}

// Checkout prices the seats, takes payment and records the booking. The seats
// must not be held by another checkout. The hold is released whatever the
// outcome of the booking write.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (Receipt, error) {
	schedule, ok := s.Store.Schedule(req.ScheduleID)
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %s", ErrScheduleNotFound, req.ScheduleID)
	}
	snap := s.Store.Snapshot()
	if err := s.checkSeats(snap, schedule, req.Seats); err != nil {
		return Receipt{}, err
	}
	for _, p := range req.Passengers {
		if !slices.Contains(req.Seats, p.SeatNumber) {
			return Receipt{}, fmt.Errorf("%w: %s", ErrPassengerSeat, p.SeatNumber)
		}
	}

	hold, err := s.HoldSeats(ctx, req.ScheduleID, req.Seats, req.HoldID)
	if err != nil {
		return Receipt{}, err
	}
	defer func() {
		if err := s.ReleaseHold(context.WithoutCancel(ctx), req.ScheduleID, req.Seats, hold.ID); err != nil {
			s.Logger.Warn("BOOKING", fmt.Sprintf("Failed to release hold %s: %v", hold.ID, err))
		}
	}()

	draft := models.Booking{
		ScheduleID:       req.ScheduleID,
		CustomerID:       req.CustomerID,
		SeatsBooked:      slices.Clone(req.Seats),
		PassengerDetails: slices.Clone(req.Passengers),
	}
	ticketFare := 0
	if route, ok := snap.Route(schedule.RouteID); ok {
		ticketFare = analytics.TicketFare(route, schedule)
		draft.TotalFare = analytics.TotalFare(route, schedule, len(req.Seats))
		draft.TravelOrigin = route.Source
		draft.TravelDestination = route.Destination
	}
	if customer, ok := s.Store.Customer(req.CustomerID); ok {
		draft.CustomerName = customer.Name
	} else if len(req.Passengers) > 0 {
		draft.CustomerName = req.Passengers[0].Name
	}

	final, err := s.Payments.Charge(ctx, req.Card, draft)
	if err != nil {
		return Receipt{}, err
	}

	id, err := s.Store.UpdateBooking(ctx, final)
	if err != nil {
		s.Logger.Error("BOOKING", fmt.Sprintf("Payment %s captured but booking failed: %v", final.PaymentID, err))
		return Receipt{}, err
	}
	confirmed, _ := s.Store.Booking(id)
	s.Logger.LogBooking("CONFIRM", id, fmt.Sprintf("%d seat(s), fare %d, payment %s", len(confirmed.SeatsBooked), confirmed.TotalFare, confirmed.PaymentID))

	if s.Events != nil {
		if err := s.Events.PublishBookingConfirmed(ctx, confirmed); err != nil {
			s.Logger.Warn("BOOKING", fmt.Sprintf("Confirmation event for %s not sent: %v", id, err))
		}
	}

	receipt := Receipt{Booking: confirmed, TicketFare: ticketFare}
	if s.Passes != nil {
		route, _ := snap.Route(schedule.RouteID)
		pass := qr.NewBoardingPass(confirmed, schedule, route)
		if png, err := s.Passes.GeneratePNG(pass); err != nil {
			s.Logger.Warn("BOOKING", fmt.Sprintf("QR code for %s not generated: %v", id, err))
		} else {
			receipt.QRCode = png
		}
		if token, err := s.Passes.Token(pass); err == nil {
			receipt.TicketToken = token
		}
	}
	return receipt, nil
}

// Cancel soft-cancels a booking and announces it. Cancelling a cancelled
// booking succeeds without a second event.
func (s *Service) Cancel(ctx context.Context, bookingID string) (models.Booking, error) {
	before, ok := s.Store.Booking(bookingID)
	if err := s.Store.CancelBooking(ctx, bookingID); err != nil {
		return models.Booking{}, err
	}
	after, _ := s.Store.Booking(bookingID)
	if ok && !before.Active() {
		return after, nil
	}

	s.Logger.LogBooking("CANCEL", bookingID, fmt.Sprintf("seats %s released", strings.Join(after.SeatsBooked, ",")))
	if s.Events != nil {
		if err := s.Events.PublishBookingCancelled(ctx, after); err != nil {
			s.Logger.Warn("BOOKING", fmt.Sprintf("Cancellation event for %s not sent: %v", bookingID, err))
		}
	}
	return after, nil
}

// VerifyPass checks a scanned boarding pass token against the stored booking.
// The booking must exist, be active and still hold the seats on the pass.
func (s *Service) VerifyPass(ctx context.Context, token string) (models.Booking, error) {
	if s.Passes == nil {
		return models.Booking{}, ErrPassesDisabled
	}
	pass, err := s.Passes.Decode(token)
	if err != nil {
		return models.Booking{}, err
	}
	b, ok := s.Store.Booking(pass.BookingID)
	if !ok {
		return models.Booking{}, fmt.Errorf("booking %s: %w", pass.BookingID, repository.ErrBookingNotFound)
	}
	if !b.Active() {
		return b, fmt.Errorf("booking %s: %w", b.BookingID, repository.ErrBookingClosed)
	}
	if b.ScheduleID != pass.ScheduleID || !slices.Equal(b.SeatsBooked, pass.Seats) {
		return b, fmt.Errorf("booking %s: %w", b.BookingID, ErrPassMismatch)
	}
	s.Logger.LogBooking("BOARD", b.BookingID, fmt.Sprintf("pass verified for seats %s", strings.Join(b.SeatsBooked, ",")))
	return b, nil
}

// SeatsTakenError lists requested seats already sold on the schedule.
type SeatsTakenError struct {
	ScheduleID string
	Seats      []string
}

func (e *SeatsTakenError) Error() string {
	return fmt.Sprintf("seats %s on schedule %s are already booked", strings.Join(e.Seats, ", "), e.ScheduleID)
}

func (e *SeatsTakenError) Unwrap() error { return repository.ErrSeatUnavailable }

// SeatsHeldError lists requested seats reserved by another checkout.
type SeatsHeldError struct {
	ScheduleID string
	Seats      []string
}

func (e *SeatsHeldError) Error() string {
	return fmt.Sprintf("seats %s on schedule %s are held by another checkout", strings.Join(e.Seats, ", "), e.ScheduleID)
}

func (e *SeatsHeldError) Unwrap() error { return ErrSeatsHeld }
