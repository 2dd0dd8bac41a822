package analytics

import (
	"strings"

	"ms-busbooking/internal/models"
)

// TripOption is one bookable departure in search results.
type TripOption struct {
	Schedule       models.Schedule `json:"schedule"`
	Route          models.Route    `json:"route"`
	Bus            models.Bus      `json:"bus"`
	TicketFare     int             `json:"ticketFare"`
	ArrivalDay     int             `json:"arrivalDayOffset"`
	SeatsAvailable int             `json:"seatsAvailable"`
	SoldOut        bool            `json:"soldOut"`
}

func normalizeCity(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// SearchTrips finds departures on date whose route source and destination
// contain the requested cities, ignoring case and spaces. Missing input
// yields no results.
func SearchTrips(s models.Snapshot, from, to, date string) []TripOption {
	out := []TripOption{}
	if from == "" || to == "" || date == "" {
		return out
	}
	wantFrom, wantTo := normalizeCity(from), normalizeCity(to)

	for _, schedule := range s.Schedules {
		route, ok := s.Route(schedule.RouteID)
		if !ok || schedule.DepartureDate != date {
			continue
		}
		if !strings.Contains(normalizeCity(route.Source), wantFrom) ||
			!strings.Contains(normalizeCity(route.Destination), wantTo) {
			continue
		}
		bus, _ := s.Bus(schedule.BusID)
		available := SeatsAvailable(s, schedule)
		day, _ := ArrivalDayOffset(schedule.DepartureTime, route.Duration)
		out = append(out, TripOption{
			Schedule:       schedule,
			Route:          route,
			Bus:            bus,
			TicketFare:     TicketFare(route, schedule),
			ArrivalDay:     day,
			SeatsAvailable: available,
			SoldOut:        available == 0,
		})
	}
	return out
}

// Cities lists every distinct city appearing on a route, in first-seen order.
func Cities(s models.Snapshot) []string {
	seen := map[string]bool{}
	cities := []string{}
	for _, r := range s.Routes {
		for _, c := range []string{r.Source, r.Destination} {
			if c != "" && !seen[c] {
				seen[c] = true
				cities = append(cities, c)
			}
		}
	}
	return cities
}

// CustomerTrip is a booking joined with its schedule for the "my bookings" list.
type CustomerTrip struct {
	Booking       models.Booking `json:"booking"`
	Source        string         `json:"source"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departureDate"`
	DepartureTime string         `json:"departureTime"`
}

// CustomerBookings returns the customer's bookings, newest first.
func CustomerBookings(s models.Snapshot, customerID string) []CustomerTrip {
	out := []CustomerTrip{}
	for i := len(s.Bookings) - 1; i >= 0; i-- {
		b := s.Bookings[i]
		if b.CustomerID != customerID {
			continue
		}
		trip := CustomerTrip{Booking: b, Source: Unknown, Destination: Unknown}
		if schedule, ok := s.Schedule(b.ScheduleID); ok {
			trip.DepartureDate = schedule.DepartureDate
			trip.DepartureTime = schedule.DepartureTime
			if route, ok := s.Route(schedule.RouteID); ok {
				trip.Source = route.Source
				trip.Destination = route.Destination
			}
		}
		out = append(out, trip)
	}
	return out
}
