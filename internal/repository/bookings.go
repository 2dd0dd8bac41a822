package repository

import (
	"context"
	"fmt"
	"strings"

	"ms-busbooking/internal/models"
	"ms-busbooking/internal/store"
)

// UpdateBooking finalises a new booking or amends an existing one.
//
// With an empty BookingID the record gets a fresh id, defaults to Confirmed
// and is appended; its schedule must exist. With a BookingID the non-zero
// fields of b are merged into the stored record; moving it to another
// schedule requires that schedule to exist. A cancelled booking cannot
// be brought back. Either way the resulting active booking must not claim a
// seat held by another active booking on the same schedule.
func (r *Repository) UpdateBooking(ctx context.Context, b models.Booking) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.BookingID == "" {
		return r.createBooking(ctx, b)
	}

	i := r.bookingIndex(b.BookingID)
	if i < 0 {
		return "", fmt.Errorf("booking %s: %w", b.BookingID, ErrBookingNotFound)
	}
	existing := r.bookings[i]
	merged := mergeBooking(existing, b)
	if merged.ScheduleID != existing.ScheduleID && r.scheduleIndex(merged.ScheduleID) < 0 {
		return "", fmt.Errorf("schedule %s: %w", merged.ScheduleID, ErrNotFound)
	}
	if !existing.Active() && merged.Active() {
		return "", fmt.Errorf("booking %s: %w", b.BookingID, ErrBookingClosed)
	}
	if err := models.Validate(merged); err != nil {
		return "", invalid("booking", err)
	}
	if err := r.checkSeats(merged); err != nil {
		return "", err
	}

	if err := commit(ctx, r, store.Bookings, &r.bookings, replaced(r.bookings, i, merged)); err != nil {
		return "", err
	}
	r.Logger.LogBooking("UPDATE", merged.BookingID, fmt.Sprintf("status %s, seats %s", merged.Status, strings.Join(merged.SeatsBooked, ",")))
	return merged.BookingID, nil
}

func (r *Repository) createBooking(ctx context.Context, b models.Booking) (string, error) {
	if r.scheduleIndex(b.ScheduleID) < 0 {
		return "", fmt.Errorf("schedule %s: %w", b.ScheduleID, ErrNotFound)
	}

	b = cloneBooking(b)
	b.BookingID = r.ids.next(BookingPrefix)
	if b.Status == "" {
		b.Status = models.BookingConfirmed
	}
	if err := models.Validate(b); err != nil {
		return "", invalid("booking", err)
	}
	if err := r.checkSeats(b); err != nil {
		return "", err
	}

	if err := commit(ctx, r, store.Bookings, &r.bookings, appended(r.bookings, b)); err != nil {
		return "", err
	}
	r.Logger.LogBooking("CREATE", b.BookingID, fmt.Sprintf("schedule %s, %d seat(s), fare %d", b.ScheduleID, len(b.SeatsBooked), b.TotalFare))
	return b.BookingID, nil
}

// CancelBooking marks the booking Cancelled. Cancelling twice is a no-op.
func (r *Repository) CancelBooking(ctx context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.bookingIndex(bookingID)
	if i < 0 {
		return fmt.Errorf("booking %s: %w", bookingID, ErrBookingNotFound)
	}
	if !r.bookings[i].Active() {
		return nil
	}

	cancelled := cloneBooking(r.bookings[i])
	cancelled.Status = models.BookingCancelled
	if err := commit(ctx, r, store.Bookings, &r.bookings, replaced(r.bookings, i, cancelled)); err != nil {
		return err
	}
	r.Logger.LogBooking("CANCEL", bookingID, "booking cancelled, seats released")
	return nil
}

// checkSeats rejects an active booking whose seats repeat or overlap another
// active booking on the same schedule.
func (r *Repository) checkSeats(b models.Booking) error {
	if !b.Active() {
		return nil
	}

	taken := map[string]bool{}
	for _, other := range r.bookings {
		if other.BookingID == b.BookingID || other.ScheduleID != b.ScheduleID || !other.Active() {
			continue
		}
		for _, seat := range other.SeatsBooked {
			taken[seat] = true
		}
	}

	var clashes []string
	seen := map[string]bool{}
	for _, seat := range b.SeatsBooked {
		if taken[seat] || seen[seat] {
			clashes = append(clashes, seat)
		}
		seen[seat] = true
	}
	if len(clashes) > 0 {
		r.Logger.LogIntegrity("BOOKING", b.BookingID, fmt.Sprintf("seat clash on %s: %s", b.ScheduleID, strings.Join(clashes, ",")))
		return &SeatConflictError{ScheduleID: b.ScheduleID, Seats: clashes}
	}
	return nil
}

func mergeBooking(dst, src models.Booking) models.Booking {
	out := cloneBooking(dst)
	if src.ScheduleID != "" {
		out.ScheduleID = src.ScheduleID
	}
	if src.CustomerID != "" {
		out.CustomerID = src.CustomerID
	}
	if src.CustomerName != "" {
		out.CustomerName = src.CustomerName
	}
	if src.TravelOrigin != "" {
		out.TravelOrigin = src.TravelOrigin
	}
	if src.TravelDestination != "" {
		out.TravelDestination = src.TravelDestination
	}
	if src.SeatsBooked != nil {
		out.SeatsBooked = append([]string(nil), src.SeatsBooked...)
	}
	if src.TotalFare != 0 {
		out.TotalFare = src.TotalFare
	}
	if src.PassengerDetails != nil {
		out.PassengerDetails = append([]models.Passenger(nil), src.PassengerDetails...)
	}
	if src.Status != "" {
		out.Status = src.Status
	}
	if src.PaymentStatus != "" {
		out.PaymentStatus = src.PaymentStatus
	}
	if src.PaymentID != "" {
		out.PaymentID = src.PaymentID
	}
	if src.BookedAt != nil {
		t := *src.BookedAt
		out.BookedAt = &t
	}
	return out
}
