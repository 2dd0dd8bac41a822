package models

// DefaultBusCapacity is used when a schedule's bus cannot be resolved.
const DefaultBusCapacity = 24

type Bus struct {
	BusID      string   `json:"busId" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	SeatType   string   `json:"seatType"`
	TotalSeats int      `json:"totalSeats" validate:"gte=0"`
	Amenities  []string `json:"amenities"`
}
