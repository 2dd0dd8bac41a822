package models

// Route is a source/destination city pair.
type Route struct {
	RouteID     string  `json:"routeId" validate:"required"`
	Source      string  `json:"source" validate:"required"`
	Destination string  `json:"destination" validate:"required"`
	Distance    float64 `json:"distance,omitempty" validate:"gte=0"`
	Duration    string  `json:"duration" validate:"required,tripduration"`
	BaseFare    float64 `json:"baseFare" validate:"gte=0"`
}

// Label renders the route the way manifests and dashboards show it.
func (r Route) Label() string {
	return r.Source + " ➝ " + r.Destination
}
