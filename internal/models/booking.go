package models

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
)

const PaymentPaid = "Paid"

type Passenger struct {
	Name       string `json:"name" validate:"required"`
	Age        int    `json:"age" validate:"gte=0,lte=120"`
	Gender     string `json:"gender"`
	SeatNumber string `json:"seatNumber" validate:"required"`
}

// Booking never leaves the collection; cancellation is a status change.
type Booking struct {
	BookingID         string        `json:"bookingId" validate:"required"`
	ScheduleID        string        `json:"scheduleId" validate:"required"`
	CustomerID        string        `json:"customerId"`
	CustomerName      string        `json:"customerName,omitempty"`
	TravelOrigin      string        `json:"travelOrigin,omitempty"`
	TravelDestination string        `json:"travelDestination,omitempty"`
	SeatsBooked       []string      `json:"seatsBooked"`
	TotalFare         int           `json:"totalFare" validate:"gte=0"`
	PassengerDetails  []Passenger   `json:"passengerDetails,omitempty" validate:"dive"`
	Status            BookingStatus `json:"status"`
	PaymentStatus     string        `json:"paymentStatus,omitempty"`
	PaymentID         string        `json:"paymentId,omitempty"`
	BookedAt          *time.Time    `json:"bookedAt,omitempty"`
}

// Active reports whether the booking still holds its seats.
func (b Booking) Active() bool {
	return b.Status != BookingCancelled
}
