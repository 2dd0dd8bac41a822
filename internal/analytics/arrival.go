package analytics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ms-busbooking/internal/models"
)

var (
	ErrInvalidDeparture = errors.New("departure time must be HH:MM")
	ErrInvalidDuration  = models.ErrInvalidDuration
)

const minutesPerDay = 24 * 60

// ParseDuration extracts hours and minutes from "<H>h[ <M>m]".
func ParseDuration(duration string) (hours, minutes int, err error) {
	return models.ParseDuration(duration)
}

func parseClock(departure string) (int, error) {
	parts := strings.Split(strings.TrimSpace(departure), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDeparture, departure)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDeparture, departure)
	}
	return h*60 + m, nil
}

func travelMinutes(departure, duration string) (int, error) {
	start, err := parseClock(departure)
	if err != nil {
		return 0, err
	}
	h, m, err := ParseDuration(duration)
	if err != nil {
		return 0, err
	}
	return start + h*60 + m, nil
}

// ArrivalTime adds the route duration to the departure time of day and wraps
// at midnight. The calendar date is not advanced; see ArrivalDayOffset.
func ArrivalTime(departure, duration string) (string, error) {
	total, err := travelMinutes(departure, duration)
	if err != nil {
		return "", err
	}
	wrapped := total % minutesPerDay
	return fmt.Sprintf("%02d:%02d", wrapped/60, wrapped%60), nil
}

// ArrivalDayOffset reports how many midnights the trip crosses.
func ArrivalDayOffset(departure, duration string) (int, error) {
	total, err := travelMinutes(departure, duration)
	if err != nil {
		return 0, err
	}
	return total / minutesPerDay, nil
}
