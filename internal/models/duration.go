package models

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	ErrInvalidDuration = errors.New("duration must look like 8h, 8h 30m or 45m")

	hoursPattern   = regexp.MustCompile(`(\d+)h`)
	minutesPattern = regexp.MustCompile(`(\d+)m`)
)

// ParseDuration extracts hours and minutes from a route duration such as
// "8h", "8h 30m", "3h45m" or "45m". Either part may be missing, not both.
func ParseDuration(duration string) (hours, minutes int, err error) {
	h := hoursPattern.FindStringSubmatch(duration)
	m := minutesPattern.FindStringSubmatch(duration)
	if h == nil && m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDuration, duration)
	}
	if h != nil {
		hours, _ = strconv.Atoi(h[1])
	}
	if m != nil {
		minutes, _ = strconv.Atoi(m[1])
	}
	return hours, minutes, nil
}
