package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// flexNumber decodes a JSON number or a numeric string ("25", " 12.5 ").
// Form inputs were stored as strings by older clients. An empty string or
// null is zero.
func flexNumber(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		return f, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return f, nil
}

func (r *Route) UnmarshalJSON(data []byte) error {
	type plain Route
	aux := struct {
		*plain
		Distance json.RawMessage `json:"distance,omitempty"`
		BaseFare json.RawMessage `json:"baseFare"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if r.Distance, err = flexNumber(aux.Distance); err != nil {
		return fmt.Errorf("route distance: %w", err)
	}
	if r.BaseFare, err = flexNumber(aux.BaseFare); err != nil {
		return fmt.Errorf("route baseFare: %w", err)
	}
	return nil
}

func (p *Passenger) UnmarshalJSON(data []byte) error {
	type plain Passenger
	aux := struct {
		*plain
		Age json.RawMessage `json:"age"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	age, err := flexNumber(aux.Age)
	if err != nil {
		return fmt.Errorf("passenger age: %w", err)
	}
	p.Age = int(math.Round(age))
	return nil
}
