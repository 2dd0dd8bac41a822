package repository

import (
	"context"
	"fmt"

	"ms-busbooking/internal/models"
	"ms-busbooking/internal/store"
)

func (r *Repository) AddBus(ctx context.Context, bus models.Bus) (models.Bus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bus.BusID = r.ids.next(BusPrefix)
	if bus.TotalSeats == 0 {
		bus.TotalSeats = models.DefaultBusCapacity
	}
	if err := models.Validate(bus); err != nil {
		return models.Bus{}, invalid("bus", err)
	}
	bus = cloneBus(bus)
	if err := commit(ctx, r, store.Buses, &r.buses, appended(r.buses, bus)); err != nil {
		return models.Bus{}, err
	}
	r.Logger.Info("REPOSITORY", fmt.Sprintf("Bus %s added: %s (%d seats)", bus.BusID, bus.Name, bus.TotalSeats))
	return cloneBus(bus), nil
}

// DeleteBus refuses with a *ConflictError while any schedule uses the bus.
func (r *Repository) DeleteBus(ctx context.Context, busID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.busIndex(busID)
	if i < 0 {
		return fmt.Errorf("bus %s: %w", busID, ErrNotFound)
	}

	inUse := 0
	for _, s := range r.schedules {
		if s.BusID == busID {
			inUse++
		}
	}
	if inUse > 0 {
		conflict := &ConflictError{
			Entity: "bus",
			ID:     busID,
			Reason: fmt.Sprintf("it is assigned to %d schedule(s); delete those schedules first", inUse),
		}
		r.Logger.LogIntegrity("BUS", busID, conflict.Reason)
		return conflict
	}

	if err := commit(ctx, r, store.Buses, &r.buses, without(r.buses, i)); err != nil {
		return err
	}
	r.Logger.Info("REPOSITORY", fmt.Sprintf("Bus %s deleted", busID))
	return nil
}
