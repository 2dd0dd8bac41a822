package analytics

import "ms-busbooking/internal/models"

// Dashboard holds the headline numbers of the admin landing page.
type Dashboard struct {
	TotalRevenue   int              `json:"totalRevenue"`
	TotalBookings  int              `json:"totalBookings"`
	Cancelled      int              `json:"cancelled"`
	ActiveBuses    int              `json:"activeBuses"`
	ActiveRoutes   int              `json:"activeRoutes"`
	TotalSchedules int              `json:"totalSchedules"`
	TotalCustomers int              `json:"totalCustomers"`
	TopRoute       string           `json:"topRoute,omitempty"`
	TopRoutes      []RouteMetrics   `json:"topRoutes"`
	RecentBookings []models.Booking `json:"recentBookings"`
}

const (
	dashboardTopRoutes = 3
	recentBookingCount = 5
)

func DashboardStats(s models.Snapshot) Dashboard {
	d := Dashboard{
		TotalBookings:  len(s.Bookings),
		ActiveBuses:    len(s.Buses),
		ActiveRoutes:   len(s.Routes),
		TotalSchedules: len(s.Schedules),
		TotalCustomers: len(s.Customers),
		TopRoutes:      TopRoutes(s, dashboardTopRoutes),
		RecentBookings: []models.Booking{},
	}
	for _, b := range s.Bookings {
		if b.Active() {
			d.TotalRevenue += b.TotalFare
		} else {
			d.Cancelled++
		}
	}
	if len(d.TopRoutes) > 0 {
		d.TopRoute = d.TopRoutes[0].Route
	}
	for i := len(s.Bookings) - 1; i >= 0 && len(d.RecentBookings) < recentBookingCount; i-- {
		d.RecentBookings = append(d.RecentBookings, s.Bookings[i])
	}
	return d
}
