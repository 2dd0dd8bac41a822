package analytics

import (
	"sort"

	"ms-busbooking/internal/models"
)

// RouteMetrics aggregates every schedule of one source/destination pair.
type RouteMetrics struct {
	Route          string `json:"route"`
	Source         string `json:"source"`
	Destination    string `json:"destination"`
	Revenue        int    `json:"revenue"`
	Bookings       int    `json:"bookings"`
	SeatsBooked    int    `json:"seatsBooked"`
	TotalSeats     int    `json:"totalSeats"`
	SchedulesCount int    `json:"schedulesCount"`
}

// Occupancy is seats booked over seats offered, 0 when nothing was offered.
func (m RouteMetrics) Occupancy() float64 {
	if m.TotalSeats == 0 {
		return 0
	}
	return float64(m.SeatsBooked) / float64(m.TotalSeats)
}

type routeKey struct{ source, destination string }

// RoutePerformance groups schedules by (source, destination) and sums the
// non-cancelled bookings on them. Schedules whose route is gone are skipped.
// The result is ordered by revenue, highest first.
func RoutePerformance(s models.Snapshot) []RouteMetrics {
	index := map[routeKey]int{}
	var out []RouteMetrics

	for _, schedule := range s.Schedules {
		route, ok := s.Route(schedule.RouteID)
		if !ok {
			continue
		}
		key := routeKey{route.Source, route.Destination}
		i, seen := index[key]
		if !seen {
			i = len(out)
			index[key] = i
			out = append(out, RouteMetrics{
				Route:       route.Label(),
				Source:      route.Source,
				Destination: route.Destination,
			})
		}

		m := &out[i]
		m.SchedulesCount++
		m.TotalSeats += Capacity(s, schedule)
		for _, b := range s.BookingsFor(schedule.ScheduleID) {
			if !b.Active() {
				continue
			}
			m.Bookings++
			m.Revenue += b.TotalFare
			m.SeatsBooked += len(b.SeatsBooked)
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Revenue > out[b].Revenue
	})
	if out == nil {
		out = []RouteMetrics{}
	}
	return out
}

// TopRoutes returns the n best routes by revenue.
func TopRoutes(s models.Snapshot, n int) []RouteMetrics {
	all := RoutePerformance(s)
	if n >= 0 && len(all) > n {
		return all[:n]
	}
	return all
}
