package models

type Customer struct {
	CustomerID       string  `json:"customerId" validate:"required"`
	Name             string  `json:"name" validate:"required"`
	Phone            string  `json:"phone"`
	LifetimeBookings int     `json:"lifetimeBookings"`
	LoyaltyDiscount  float64 `json:"loyaltyDiscount"`
}
