package analytics

import (
	"fmt"

	"ms-busbooking/internal/models"
)

// Capacity is the bus seat count, or DefaultBusCapacity when the bus is unknown.
func Capacity(s models.Snapshot, schedule models.Schedule) int {
	if bus, ok := s.Bus(schedule.BusID); ok && bus.TotalSeats > 0 {
		return bus.TotalSeats
	}
	return models.DefaultBusCapacity
}

// BookedSeats lists seat labels held by active bookings on the schedule.
func BookedSeats(s models.Snapshot, scheduleID string) []string {
	seats := []string{}
	for _, b := range s.Bookings {
		if b.ScheduleID == scheduleID && b.Active() {
			seats = append(seats, b.SeatsBooked...)
		}
	}
	return seats
}

func SeatsTaken(s models.Snapshot, scheduleID string) int {
	return len(BookedSeats(s, scheduleID))
}

// SeatsAvailable is max(0, capacity - seats held by active bookings).
func SeatsAvailable(s models.Snapshot, schedule models.Schedule) int {
	available := Capacity(s, schedule) - SeatsTaken(s, schedule.ScheduleID)
	if available < 0 {
		return 0
	}
	return available
}

// SeatLabels lays out a 2+1 coach: rows of A, B and C seats ("1A", "1B", "1C", ...).
func SeatLabels(capacity int) []string {
	labels := make([]string, 0, capacity)
	columns := []string{"A", "B", "C"}
	for i := 0; len(labels) < capacity; i++ {
		labels = append(labels, fmt.Sprintf("%d%s", i/3+1, columns[i%3]))
	}
	return labels
}

// SeatMap is the seat-selection view of one schedule.
type SeatMap struct {
	ScheduleID string   `json:"scheduleId"`
	Capacity   int      `json:"capacity"`
	Booked     []string `json:"booked"`
	Available  int      `json:"available"`
	Layout     []string `json:"layout"`
	TicketFare int      `json:"ticketFare"`
}

func BuildSeatMap(s models.Snapshot, schedule models.Schedule) SeatMap {
	capacity := Capacity(s, schedule)
	fare := 0
	if route, ok := s.Route(schedule.RouteID); ok {
		fare = TicketFare(route, schedule)
	}
	return SeatMap{
		ScheduleID: schedule.ScheduleID,
		Capacity:   capacity,
		Booked:     BookedSeats(s, schedule.ScheduleID),
		Available:  SeatsAvailable(s, schedule),
		Layout:     SeatLabels(capacity),
		TicketFare: fare,
	}
}
