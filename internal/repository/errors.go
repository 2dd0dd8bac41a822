package repository

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingClosed     = errors.New("booking is cancelled")
	ErrIntegrityConflict = errors.New("record is still referenced")
	ErrSeatUnavailable   = errors.New("seat is not available")
	ErrPhoneTaken        = errors.New("phone number already registered")
	ErrInvalidRecord     = errors.New("invalid record")
)

// ConflictError is returned when a delete is refused because dependent
// records still point at the target. Nothing is mutated.
type ConflictError struct {
	Entity string
	ID     string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot delete %s %s: %s", e.Entity, e.ID, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrIntegrityConflict }

// SeatConflictError lists the seats of a booking already claimed by another
// active booking on the same schedule, or repeated within the booking.
type SeatConflictError struct {
	ScheduleID string
	Seats      []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats %s on schedule %s are already booked", strings.Join(e.Seats, ", "), e.ScheduleID)
}

func (e *SeatConflictError) Unwrap() error { return ErrSeatUnavailable }

func invalid(entity string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidRecord, entity, err)
}
