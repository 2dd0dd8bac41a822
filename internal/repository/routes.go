package repository

import (
	"context"
	"fmt"

	"ms-busbooking/internal/models"
	"ms-busbooking/internal/store"
)

// AddRoute stores route under a fresh id and returns the stored record.
func (r *Repository) AddRoute(ctx context.Context, route models.Route) (models.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	route.RouteID = r.ids.next(RoutePrefix)
	if err := models.Validate(route); err != nil {
		return models.Route{}, invalid("route", err)
	}
	if err := commit(ctx, r, store.Routes, &r.routes, appended(r.routes, route)); err != nil {
		return models.Route{}, err
	}
	r.Logger.Info("REPOSITORY", fmt.Sprintf("Route %s added: %s", route.RouteID, route.Label()))
	return route, nil
}

// DeleteRoute refuses with a *ConflictError while any schedule runs on the route.
func (r *Repository) DeleteRoute(ctx context.Context, routeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.routeIndex(routeID)
	if i < 0 {
		return fmt.Errorf("route %s: %w", routeID, ErrNotFound)
	}

	inUse := 0
	for _, s := range r.schedules {
		if s.RouteID == routeID {
			inUse++
		}
	}
	if inUse > 0 {
		conflict := &ConflictError{
			Entity: "route",
			ID:     routeID,
			Reason: fmt.Sprintf("it is used by %d schedule(s); delete those schedules first", inUse),
		}
		r.Logger.LogIntegrity("ROUTE", routeID, conflict.Reason)
		return conflict
	}

	if err := commit(ctx, r, store.Routes, &r.routes, without(r.routes, i)); err != nil {
		return err
	}
	r.Logger.Info("REPOSITORY", fmt.Sprintf("Route %s deleted", routeID))
	return nil
}
