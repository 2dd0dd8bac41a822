package models

// Snapshot is a point-in-time copy of all five collections.
type Snapshot struct {
	Routes    []Route    `json:"routes"`
	Buses     []Bus      `json:"buses"`
	Schedules []Schedule `json:"schedules"`
	Bookings  []Booking  `json:"bookings"`
	Customers []Customer `json:"customers"`
}

func (s Snapshot) Route(id string) (Route, bool) {
	for _, r := range s.Routes {
		if r.RouteID == id {
			return r, true
		}
	}
	return Route{}, false
}

func (s Snapshot) Bus(id string) (Bus, bool) {
	for _, b := range s.Buses {
		if b.BusID == id {
			return b, true
		}
	}
	return Bus{}, false
}

func (s Snapshot) Schedule(id string) (Schedule, bool) {
	for _, sc := range s.Schedules {
		if sc.ScheduleID == id {
			return sc, true
		}
	}
	return Schedule{}, false
}

// BookingsFor returns every booking on the schedule, cancelled ones included.
func (s Snapshot) BookingsFor(scheduleID string) []Booking {
	var out []Booking
	for _, b := range s.Bookings {
		if b.ScheduleID == scheduleID {
			out = append(out, b)
		}
	}
	return out
}
