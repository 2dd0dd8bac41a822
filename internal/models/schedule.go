package models

const ScheduleStatusActive = "Active"

// Schedule is one dated departure of a bus over a route.
type Schedule struct {
	ScheduleID     string  `json:"scheduleId" validate:"required"`
	RouteID        string  `json:"routeId" validate:"required"`
	BusID          string  `json:"busId" validate:"required"`
	DepartureDate  string  `json:"departureDate" validate:"required,datetime=2006-01-02"`
	DepartureTime  string  `json:"departureTime" validate:"required,clock"`
	ArrivalTime    string  `json:"arrivalTime,omitempty"`
	FareMultiplier float64 `json:"fareMultiplier" validate:"gte=0"`
	Status         string  `json:"status,omitempty"`
}
