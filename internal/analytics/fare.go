package analytics

import (
	"math"

	"ms-busbooking/internal/models"
)

// TicketFare is the per-seat price: baseFare * multiplier rounded to the
// nearest whole currency unit. A zero multiplier counts as 1.
func TicketFare(route models.Route, schedule models.Schedule) int {
	multiplier := schedule.FareMultiplier
	if multiplier == 0 {
		multiplier = 1
	}
	return roundMoney(route.BaseFare * multiplier)
}

func TotalFare(route models.Route, schedule models.Schedule, seats int) int {
	if seats <= 0 {
		return 0
	}
	return TicketFare(route, schedule) * seats
}

func roundMoney(x float64) int {
	return int(math.Round(x))
}
