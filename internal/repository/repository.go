package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/models"
	"ms-busbooking/internal/store"
)

// Repository is the single writer for the five collections. Every successful
// mutation is written through to the store before the call returns; when the
// write fails the in-memory collection is left as it was.
type Repository struct {
	mu     sync.RWMutex
	store  *store.Collections
	Logger *logger.Logger
	ids    *idGenerator

	routes    []models.Route
	buses     []models.Bus
	schedules []models.Schedule
	bookings  []models.Booking
	customers []models.Customer
}

// New loads all collections once. Loading never fails; corrupt or missing
// data is replaced by the seed set inside the store.
func New(ctx context.Context, collections *store.Collections, log *logger.Logger) *Repository {
	r := &Repository{
		store:     collections,
		Logger:    log,
		ids:       newIDGenerator(),
		routes:    store.Load[models.Route](ctx, collections, store.Routes),
		buses:     store.Load[models.Bus](ctx, collections, store.Buses),
		schedules: store.Load[models.Schedule](ctx, collections, store.Schedules),
		bookings:  store.Load[models.Booking](ctx, collections, store.Bookings),
		customers: store.Load[models.Customer](ctx, collections, store.Customers),
	}
	r.seedIDs()
	log.Info("REPOSITORY", fmt.Sprintf("Loaded %d routes, %d buses, %d schedules, %d bookings, %d customers",
		len(r.routes), len(r.buses), len(r.schedules), len(r.bookings), len(r.customers)))
	return r
}

func (r *Repository) seedIDs() {
	for _, x := range r.routes {
		r.ids.observe(RoutePrefix, x.RouteID)
	}
	for _, x := range r.buses {
		r.ids.observe(BusPrefix, x.BusID)
	}
	for _, x := range r.schedules {
		r.ids.observe(SchedulePrefix, x.ScheduleID)
	}
	for _, x := range r.bookings {
		r.ids.observe(BookingPrefix, x.BookingID)
	}
	for _, x := range r.customers {
		r.ids.observe(CustomerPrefix, x.CustomerID)
	}
}

// commit saves next under name and only then swaps it in.
func commit[T any](ctx context.Context, r *Repository, name string, target *[]T, next []T) error {
	if err := store.Save(ctx, r.store, name, next); err != nil {
		return err
	}
	*target = next
	return nil
}

func without[T any](items []T, i int) []T {
	next := make([]T, 0, len(items)-1)
	next = append(next, items[:i]...)
	return append(next, items[i+1:]...)
}

func appended[T any](items []T, item T) []T {
	next := make([]T, 0, len(items)+1)
	next = append(next, items...)
	return append(next, item)
}

func replaced[T any](items []T, i int, item T) []T {
	next := slices.Clone(items)
	next[i] = item
	return next
}

func cloneBus(b models.Bus) models.Bus {
	b.Amenities = slices.Clone(b.Amenities)
	return b
}

func cloneBooking(b models.Booking) models.Booking {
	b.SeatsBooked = slices.Clone(b.SeatsBooked)
	b.PassengerDetails = slices.Clone(b.PassengerDetails)
	if b.BookedAt != nil {
		t := *b.BookedAt
		b.BookedAt = &t
	}
	return b
}

func mapClone[T any](items []T, fn func(T) T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return out
}

func (r *Repository) Routes() []models.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.routes)
}

func (r *Repository) Buses() []models.Bus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return mapClone(r.buses, cloneBus)
}

func (r *Repository) Schedules() []models.Schedule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.schedules)
}

func (r *Repository) Bookings() []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return mapClone(r.bookings, cloneBooking)
}

func (r *Repository) Customers() []models.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.customers)
}

// Snapshot copies all five collections under one read lock.
func (r *Repository) Snapshot() models.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

func (r *Repository) snapshot() models.Snapshot {
	return models.Snapshot{
		Routes:    slices.Clone(r.routes),
		Buses:     mapClone(r.buses, cloneBus),
		Schedules: slices.Clone(r.schedules),
		Bookings:  mapClone(r.bookings, cloneBooking),
		Customers: slices.Clone(r.customers),
	}
}

func (r *Repository) Route(id string) (models.Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.routeIndex(id)
	if i < 0 {
		return models.Route{}, false
	}
	return r.routes[i], true
}

func (r *Repository) Bus(id string) (models.Bus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.busIndex(id)
	if i < 0 {
		return models.Bus{}, false
	}
	return cloneBus(r.buses[i]), true
}

func (r *Repository) Schedule(id string) (models.Schedule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.scheduleIndex(id)
	if i < 0 {
		return models.Schedule{}, false
	}
	return r.schedules[i], true
}

func (r *Repository) Booking(id string) (models.Booking, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.bookingIndex(id)
	if i < 0 {
		return models.Booking{}, false
	}
	return cloneBooking(r.bookings[i]), true
}

func (r *Repository) Customer(id string) (models.Customer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.customers, func(c models.Customer) bool { return c.CustomerID == id })
	if i < 0 {
		return models.Customer{}, false
	}
	return r.customers[i], true
}

func (r *Repository) routeIndex(id string) int {
	return slices.IndexFunc(r.routes, func(x models.Route) bool { return x.RouteID == id })
}

func (r *Repository) busIndex(id string) int {
	return slices.IndexFunc(r.buses, func(x models.Bus) bool { return x.BusID == id })
}

func (r *Repository) scheduleIndex(id string) int {
	return slices.IndexFunc(r.schedules, func(x models.Schedule) bool { return x.ScheduleID == id })
}

func (r *Repository) bookingIndex(id string) int {
	return slices.IndexFunc(r.bookings, func(x models.Booking) bool { return x.BookingID == id })
}
