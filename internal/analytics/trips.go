package analytics

import (
	"fmt"

	"ms-busbooking/internal/models"
)

// TripSummary is the denormalised manifest row for one schedule.
type TripSummary struct {
	ScheduleID    string           `json:"scheduleId"`
	Route         string           `json:"route"`
	DepartureDate string           `json:"departureDate"`
	DepartureTime string           `json:"departureTime"`
	ArrivalTime   string           `json:"arrivalTime"`
	ArrivalDay    int              `json:"arrivalDayOffset"`
	BusName       string           `json:"busName"`
	SeatsOccupied int              `json:"seatsOccupied"`
	TotalSeats    int              `json:"totalSeats"`
	Occupancy     string           `json:"occupancy"`
	Revenue       int              `json:"revenue"`
	Bookings      []models.Booking `json:"bookings"`
}

const (
	UnknownRoute = "Unknown Route"
	UnknownBus   = "Unknown Bus"
	Unknown      = "Unknown"
)

func TripSummaryFor(s models.Snapshot, schedule models.Schedule) TripSummary {
	summary := TripSummary{
		ScheduleID:    schedule.ScheduleID,
		Route:         UnknownRoute,
		DepartureDate: schedule.DepartureDate,
		DepartureTime: schedule.DepartureTime,
		ArrivalTime:   schedule.ArrivalTime,
		BusName:       UnknownBus,
		Bookings:      s.BookingsFor(schedule.ScheduleID),
	}
	if route, ok := s.Route(schedule.RouteID); ok {
		summary.Route = route.Label()
		summary.ArrivalDay, _ = ArrivalDayOffset(schedule.DepartureTime, route.Duration)
	}
	if bus, ok := s.Bus(schedule.BusID); ok {
		summary.BusName = bus.Name
		summary.TotalSeats = bus.TotalSeats
	}
	for _, b := range summary.Bookings {
		if !b.Active() {
			continue
		}
		summary.SeatsOccupied += len(b.SeatsBooked)
		summary.Revenue += b.TotalFare
	}
	if summary.Bookings == nil {
		summary.Bookings = []models.Booking{}
	}
	summary.Occupancy = fmt.Sprintf("%d/%d", summary.SeatsOccupied, summary.TotalSeats)
	return summary
}

// TripSummaries builds manifest rows for every schedule, most recent first.
// Bookings whose schedule no longer exists follow, grouped by schedule id
// under Unknown Route.
func TripSummaries(s models.Snapshot) []TripSummary {
	out := make([]TripSummary, 0, len(s.Schedules))
	known := make(map[string]bool, len(s.Schedules))
	for i := len(s.Schedules) - 1; i >= 0; i-- {
		out = append(out, TripSummaryFor(s, s.Schedules[i]))
		known[s.Schedules[i].ScheduleID] = true
	}
	for _, b := range s.Bookings {
		if known[b.ScheduleID] {
			continue
		}
		known[b.ScheduleID] = true
		out = append(out, TripSummaryFor(s, models.Schedule{ScheduleID: b.ScheduleID}))
	}
	return out
}
