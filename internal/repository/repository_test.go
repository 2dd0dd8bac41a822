package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"ms-busbooking/internal/analytics"
	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/models"
	"ms-busbooking/internal/repository"
	"ms-busbooking/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyKV fails every Set while failing is true.
type flakyKV struct {
	*store.MemoryKV
	mu      sync.Mutex
	failing bool
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("disk full")
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func (f *flakyKV) fail(v bool) {
	f.mu.Lock()
	f.failing = v
	f.mu.Unlock()
}

func newRepo(t *testing.T) (*repository.Repository, *flakyKV) {
	t.Helper()
	kv := &flakyKV{MemoryKV: store.NewMemoryKV()}
	c, err := store.NewCollections(kv, logger.NewWriterLogger(nil))
	require.NoError(t, err)
	return repository.New(context.Background(), c, logger.NewWriterLogger(nil)), kv
}

func stored[T any](t *testing.T, kv *flakyKV, name string) []T {
	t.Helper()
	raw, ok := kv.Raw(name)
	require.True(t, ok, "collection %s was never persisted", name)
	var out []T
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestNew_LoadsSeed(t *testing.T) {
	repo, _ := newRepo(t)

	assert.Len(t, repo.Routes(), 4)
	assert.Len(t, repo.Buses(), 3)
	assert.Len(t, repo.Schedules(), 4)
	assert.Len(t, repo.Bookings(), 2)
	assert.Len(t, repo.Customers(), 2)
}

func TestAddRoute_AssignsIDAndPersists(t *testing.T) {
	repo, kv := newRepo(t)
	ctx := context.Background()

	route, err := repo.AddRoute(ctx, models.Route{RouteID: "ignored", Source: "Salem", Destination: "Erode", Duration: "1h 30m", BaseFare: 150})

	require.NoError(t, err)
	assert.Regexp(t, `^R\d+$`, route.RouteID)
	assert.NotEqual(t, "ignored", route.RouteID)
	got, ok := repo.Route(route.RouteID)
	require.True(t, ok)
	assert.Equal(t, route, got)
	assert.Len(t, stored[models.Route](t, kv, store.Routes), 5)
}

func TestAddRoute_RejectsMissingFields(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.AddRoute(context.Background(), models.Route{Source: "Salem", Duration: "about an hour"})

	assert.ErrorIs(t, err, repository.ErrInvalidRecord)
	assert.Len(t, repo.Routes(), 4)
}

func TestDeleteRoute_RefusedWhileScheduled(t *testing.T) {
	repo, _ := newRepo(t)
	before := repo.Routes()

	err := repo.DeleteRoute(context.Background(), "R1001")

	var conflict *repository.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, repository.ErrIntegrityConflict)
	assert.True(t, repository.IsConflict(err))
	assert.Equal(t, "route", conflict.Entity)
	assert.Contains(t, conflict.Reason, "1 schedule")
	assert.Equal(t, before, repo.Routes())
}

func TestDeleteRoute_Unused(t *testing.T) {
	repo, kv := newRepo(t)

	require.NoError(t, repo.DeleteRoute(context.Background(), "R1004"))

	_, ok := repo.Route("R1004")
	assert.False(t, ok)
	assert.Len(t, stored[models.Route](t, kv, store.Routes), 3)
	assert.ErrorIs(t, repo.DeleteRoute(context.Background(), "R1004"), repository.ErrNotFound)
}

func TestDeleteBus_RefusedWhileScheduled(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	err := repo.DeleteBus(ctx, "B2001")
	assert.ErrorIs(t, err, repository.ErrIntegrityConflict)
	assert.Len(t, repo.Buses(), 3)

	bus, err := repo.AddBus(ctx, models.Bus{Name: "Orange Tours", SeatType: "Sleeper"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBusCapacity, bus.TotalSeats)
	require.NoError(t, repo.DeleteBus(ctx, bus.BusID))
	assert.Len(t, repo.Buses(), 3)
}

func TestAddSchedule_DefaultsStatusAndArrival(t *testing.T) {
	repo, _ := newRepo(t)

	s, err := repo.AddSchedule(context.Background(), models.Schedule{
		RouteID: "R1002", BusID: "B2002", DepartureDate: "2026-01-05", DepartureTime: "22:30", FareMultiplier: 1,
	})

	require.NoError(t, err)
	assert.Regexp(t, `^SCD\d+$`, s.ScheduleID)
	assert.Equal(t, models.ScheduleStatusActive, s.Status)
	// 22:30 + 6h 30m wraps past midnight
	assert.Equal(t, "05:00", s.ArrivalTime)
}

func TestAddSchedule_InvalidTime(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.AddSchedule(context.Background(), models.Schedule{
		RouteID: "R1002", BusID: "B2002", DepartureDate: "2026-01-05", DepartureTime: "25:00",
	})

	assert.ErrorIs(t, err, repository.ErrInvalidRecord)
	assert.Len(t, repo.Schedules(), 4)
}

func TestAddScheduleSeries(t *testing.T) {
	repo, _ := newRepo(t)
	template := models.Schedule{RouteID: "R1003", BusID: "B2003", DepartureDate: "2026-02-27", DepartureTime: "08:00", FareMultiplier: 1.1}

	created, err := repo.AddScheduleSeries(context.Background(), template, 3)

	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, "2026-02-27", created[0].DepartureDate)
	assert.Equal(t, "2026-02-28", created[1].DepartureDate)
	assert.Equal(t, "2026-03-01", created[2].DepartureDate)
	ids := map[string]bool{}
	for _, s := range created {
		ids[s.ScheduleID] = true
		assert.Equal(t, "18:00", s.ArrivalTime)
	}
	assert.Len(t, ids, 3)
	assert.Len(t, repo.Schedules(), 7)

	_, err = repo.AddScheduleSeries(context.Background(), template, 0)
	assert.ErrorIs(t, err, repository.ErrInvalidRecord)
}

func TestDeleteSchedule_RefusedWithConfirmedBooking(t *testing.T) {
	repo, _ := newRepo(t)
	schedules, bookings := len(repo.Schedules()), len(repo.Bookings())

	err := repo.DeleteSchedule(context.Background(), "SCD3001")

	assert.ErrorIs(t, err, repository.ErrIntegrityConflict)
	assert.Len(t, repo.Schedules(), schedules)
	assert.Len(t, repo.Bookings(), bookings)
}

func TestDeleteSchedule_CancelledBookingsDoNotBlock(t *testing.T) {
	repo, _ := newRepo(t)

	require.NoError(t, repo.DeleteSchedule(context.Background(), "SCD3002"))

	_, ok := repo.Schedule("SCD3002")
	assert.False(t, ok)
}

func TestUpdateBooking_CreateReducesAvailability(t *testing.T) {
	repo, kv := newRepo(t)
	ctx := context.Background()
	schedule, _ := repo.Schedule("SCD3001")
	before := analytics.SeatsAvailable(repo.Snapshot(), schedule)

	id, err := repo.UpdateBooking(ctx, models.Booking{
		ScheduleID: "SCD3001", CustomerID: "CUST5002", SeatsBooked: []string{"2A", "2B", "2C"}, TotalFare: 3000,
	})

	require.NoError(t, err)
	assert.Regexp(t, `^BK\d+$`, id)
	b, ok := repo.Booking(id)
	require.True(t, ok)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	assert.Equal(t, before-3, analytics.SeatsAvailable(repo.Snapshot(), schedule))
	assert.Len(t, stored[models.Booking](t, kv, store.Bookings), 3)
}

func TestUpdateBooking_UnknownSchedule(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.UpdateBooking(context.Background(), models.Booking{ScheduleID: "SCD0", SeatsBooked: []string{"1A"}})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateBooking_SeatClash(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.UpdateBooking(ctx, models.Booking{ScheduleID: "SCD3001", SeatsBooked: []string{"1B", "1C"}})

	var clash *repository.SeatConflictError
	require.ErrorAs(t, err, &clash)
	assert.ErrorIs(t, err, repository.ErrSeatUnavailable)
	assert.Equal(t, []string{"1B"}, clash.Seats)
	assert.Len(t, repo.Bookings(), 2)

	_, err = repo.UpdateBooking(ctx, models.Booking{ScheduleID: "SCD3001", SeatsBooked: []string{"4A", "4A"}})
	assert.ErrorIs(t, err, repository.ErrSeatUnavailable)

	// seats of a cancelled booking are free again
	_, err = repo.UpdateBooking(ctx, models.Booking{ScheduleID: "SCD3002", SeatsBooked: []string{"3C"}})
	assert.NoError(t, err)
}

func TestUpdateBooking_MergesIntoExisting(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	before, _ := repo.Booking("BK4001")

	id, err := repo.UpdateBooking(ctx, models.Booking{BookingID: "BK4001", SeatsBooked: []string{"1A", "1B", "1C"}, TotalFare: 3000})

	require.NoError(t, err)
	assert.Equal(t, "BK4001", id)
	after, _ := repo.Booking("BK4001")
	assert.Equal(t, []string{"1A", "1B", "1C"}, after.SeatsBooked)
	assert.Equal(t, 3000, after.TotalFare)
	assert.Equal(t, before.CustomerName, after.CustomerName)
	assert.Equal(t, before.PaymentID, after.PaymentID)
	assert.Len(t, repo.Bookings(), 2)
}

func TestUpdateBooking_AmendToUnknownSchedule(t *testing.T) {
	repo, kv := newRepo(t)
	ctx := context.Background()

	_, err := repo.UpdateBooking(ctx, models.Booking{BookingID: "BK4001", ScheduleID: "SCD-DOES-NOT-EXIST"})

	assert.ErrorIs(t, err, repository.ErrNotFound)
	b, _ := repo.Booking("BK4001")
	assert.Equal(t, "SCD3001", b.ScheduleID)
	_, persisted := kv.Raw(store.Bookings)
	assert.False(t, persisted)
	assert.ErrorIs(t, repo.DeleteSchedule(ctx, "SCD3001"), repository.ErrIntegrityConflict)
}

func TestUpdateBooking_AmendToOtherSchedule(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.UpdateBooking(context.Background(), models.Booking{BookingID: "BK4001", ScheduleID: "SCD3003"})

	require.NoError(t, err)
	b, _ := repo.Booking("BK4001")
	assert.Equal(t, "SCD3003", b.ScheduleID)
}

func TestUpdateBooking_UnknownID(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.UpdateBooking(context.Background(), models.Booking{BookingID: "BK1", TotalFare: 10})

	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestUpdateBooking_CannotReopenCancelled(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.UpdateBooking(context.Background(), models.Booking{BookingID: "BK4002", Status: models.BookingConfirmed})

	assert.ErrorIs(t, err, repository.ErrBookingClosed)
	b, _ := repo.Booking("BK4002")
	assert.Equal(t, models.BookingCancelled, b.Status)
}

func TestCancelBooking_SoftAndIdempotent(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	n := len(repo.Bookings())

	require.NoError(t, repo.CancelBooking(ctx, "BK4001"))
	once := repo.Bookings()
	require.NoError(t, repo.CancelBooking(ctx, "BK4001"))

	assert.Len(t, repo.Bookings(), n)
	assert.Equal(t, once, repo.Bookings())
	b, _ := repo.Booking("BK4001")
	assert.Equal(t, models.BookingCancelled, b.Status)

	assert.ErrorIs(t, repo.CancelBooking(ctx, "BK0"), repository.ErrBookingNotFound)
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	repo, _ := newRepo(t)
	before := repo.Bookings()

	require.NoError(t, repo.CancelBooking(context.Background(), "BK4002"))

	assert.Equal(t, before, repo.Bookings())
}

func TestCancelBooking_UnblocksScheduleDelete(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CancelBooking(ctx, "BK4001"))
	require.NoError(t, repo.DeleteSchedule(ctx, "SCD3001"))
	// the route is still used by nothing else once SCD3001 is gone
	require.NoError(t, repo.DeleteRoute(ctx, "R1001"))
}

func TestAddCustomer_ZeroesCounters(t *testing.T) {
	repo, _ := newRepo(t)

	c, err := repo.AddCustomer(context.Background(), models.Customer{Name: " Karthik ", Phone: "9000000001", LifetimeBookings: 9, LoyaltyDiscount: 0.5})

	require.NoError(t, err)
	assert.Regexp(t, `^CUST\d+$`, c.CustomerID)
	assert.Equal(t, "Karthik", c.Name)
	assert.Zero(t, c.LifetimeBookings)
	assert.Zero(t, c.LoyaltyDiscount)
	got, ok := repo.Customer(c.CustomerID)
	require.True(t, ok)
	assert.Equal(t, c, got)
}

func TestSignUpAndFindCustomer(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.SignUp(ctx, "Someone", "9840012345")
	assert.ErrorIs(t, err, repository.ErrPhoneTaken)
	_, err = repo.SignUp(ctx, "Someone", " ")
	assert.ErrorIs(t, err, repository.ErrInvalidRecord)

	c, err := repo.SignUp(ctx, "Priya", "9000000002")
	require.NoError(t, err)

	found, ok := repo.FindCustomer("PRIYA")
	require.True(t, ok)
	assert.Equal(t, c.CustomerID, found.CustomerID)
	found, ok = repo.FindCustomer("9840067890")
	require.True(t, ok)
	assert.Equal(t, "CUST5002", found.CustomerID)
	_, ok = repo.FindCustomer("nobody")
	assert.False(t, ok)
}

func TestPersistenceFailureLeavesStateUnchanged(t *testing.T) {
	repo, kv := newRepo(t)
	ctx := context.Background()
	snapshot := repo.Snapshot()
	kv.fail(true)

	_, err := repo.AddRoute(ctx, models.Route{Source: "A", Destination: "B", Duration: "1h"})
	assert.Error(t, err)
	assert.Error(t, repo.DeleteRoute(ctx, "R1004"))
	assert.Error(t, repo.CancelBooking(ctx, "BK4001"))
	_, err = repo.UpdateBooking(ctx, models.Booking{ScheduleID: "SCD3003", SeatsBooked: []string{"1A"}})
	assert.Error(t, err)

	assert.Equal(t, snapshot, repo.Snapshot())

	kv.fail(false)
	require.NoError(t, repo.CancelBooking(ctx, "BK4001"))
}

func TestRepository_ReloadSeesPersistedState(t *testing.T) {
	repo, kv := newRepo(t)
	ctx := context.Background()
	route, err := repo.AddRoute(ctx, models.Route{Source: "Trichy", Destination: "Salem", Duration: "3h", BaseFare: 300})
	require.NoError(t, err)
	require.NoError(t, repo.CancelBooking(ctx, "BK4001"))

	c, err := store.NewCollections(kv, logger.NewWriterLogger(nil))
	require.NoError(t, err)
	reloaded := repository.New(ctx, c, logger.NewWriterLogger(nil))

	_, ok := reloaded.Route(route.RouteID)
	assert.True(t, ok)
	b, _ := reloaded.Booking("BK4001")
	assert.Equal(t, models.BookingCancelled, b.Status)
}

func TestAccessorsReturnCopies(t *testing.T) {
	repo, _ := newRepo(t)

	bookings := repo.Bookings()
	bookings[0].SeatsBooked[0] = "99Z"
	buses := repo.Buses()
	buses[0].Amenities[0] = "Pool"

	b, _ := repo.Booking(bookings[0].BookingID)
	assert.NotEqual(t, "99Z", b.SeatsBooked[0])
	bus, _ := repo.Bus(buses[0].BusID)
	assert.NotEqual(t, "Pool", bus.Amenities[0])
}

func TestConcurrentBookingsNeverShareSeats(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.UpdateBooking(ctx, models.Booking{ScheduleID: "SCD3003", SeatsBooked: []string{"5A"}}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}
