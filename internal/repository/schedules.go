package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-busbooking/internal/analytics"
	"ms-busbooking/internal/models"
	"ms-busbooking/internal/store"
)

const dateLayout = "2006-01-02"

// MaxSeriesDays bounds AddScheduleSeries.
const MaxSeriesDays = 90

// AddSchedule assigns an id, marks the schedule Active and fills in the
// arrival time from the route duration when the caller left it empty.
func (r *Repository) AddSchedule(ctx context.Context, schedule models.Schedule) (models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addSchedule(ctx, schedule)
}

func (r *Repository) addSchedule(ctx context.Context, schedule models.Schedule) (models.Schedule, error) {
	schedule.ScheduleID = r.ids.next(SchedulePrefix)
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusActive
	}
	if err := models.Validate(schedule); err != nil {
		return models.Schedule{}, invalid("schedule", err)
	}

	if schedule.ArrivalTime == "" {
		if i := r.routeIndex(schedule.RouteID); i >= 0 {
			arrival, err := analytics.ArrivalTime(schedule.DepartureTime, r.routes[i].Duration)
			if err != nil {
				r.Logger.Warn("REPOSITORY", fmt.Sprintf("No arrival time for schedule %s: %v", schedule.ScheduleID, err))
			} else {
				schedule.ArrivalTime = arrival
			}
		}
	}

	if err := commit(ctx, r, store.Schedules, &r.schedules, appended(r.schedules, schedule)); err != nil {
		return models.Schedule{}, err
	}
	r.Logger.Info("REPOSITORY", fmt.Sprintf("Schedule %s added: route %s, bus %s, %s %s",
		schedule.ScheduleID, schedule.RouteID, schedule.BusID, schedule.DepartureDate, schedule.DepartureTime))
	return schedule, nil
}

// AddScheduleSeries creates one schedule per day for days consecutive dates
// starting at template.DepartureDate. Each day is an independent create; on
// failure the schedules already created are returned with the error.
func (r *Repository) AddScheduleSeries(ctx context.Context, template models.Schedule, days int) ([]models.Schedule, error) {
	if days < 1 || days > MaxSeriesDays {
		return nil, fmt.Errorf("%w: series length must be between 1 and %d days", ErrInvalidRecord, MaxSeriesDays)
	}
	start, err := time.Parse(dateLayout, template.DepartureDate)
	if err != nil {
		return nil, invalid("schedule", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := make([]models.Schedule, 0, days)
	for d := 0; d < days; d++ {
		s := template
		s.DepartureDate = start.AddDate(0, 0, d).Format(dateLayout)
		added, err := r.addSchedule(ctx, s)
		if err != nil {
			return created, fmt.Errorf("schedule for %s: %w", s.DepartureDate, err)
		}
		created = append(created, added)
	}
	return created, nil
}

// DeleteSchedule refuses while any non-cancelled booking is on the schedule.
func (r *Repository) DeleteSchedule(ctx context.Context, scheduleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.scheduleIndex(scheduleID)
	if i < 0 {
		return fmt.Errorf("schedule %s: %w", scheduleID, ErrNotFound)
	}

	active := 0
	for _, b := range r.bookings {
		if b.ScheduleID == scheduleID && b.Active() {
			active++
		}
	}
	if active > 0 {
		conflict := &ConflictError{
			Entity: "schedule",
			ID:     scheduleID,
			Reason: fmt.Sprintf("it has %d active booking(s); cancel them first", active),
		}
		r.Logger.LogIntegrity("SCHEDULE", scheduleID, conflict.Reason)
		return conflict
	}

	if err := commit(ctx, r, store.Schedules, &r.schedules, without(r.schedules, i)); err != nil {
		return err
	}
	r.Logger.Info("REPOSITORY", fmt.Sprintf("Schedule %s deleted", scheduleID))
	return nil
}

// IsConflict reports whether err is a refused delete.
func IsConflict(err error) bool {
	return errors.Is(err, ErrIntegrityConflict)
}
