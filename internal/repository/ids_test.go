package repository

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/models"
	"ms-busbooking/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator_StrictlyIncreasingWithinOneTick(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	g := &idGenerator{now: func() time.Time { return frozen }}

	assert.Equal(t, "R1700000000000", g.next(RoutePrefix))
	assert.Equal(t, "BK1700000000001", g.next(BookingPrefix))
	assert.Equal(t, "R1700000000002", g.next(RoutePrefix))
}

func TestIDGenerator_ClockGoingBackwards(t *testing.T) {
	clock := time.UnixMilli(2000)
	g := &idGenerator{now: func() time.Time { return clock }}

	first := g.next(CustomerPrefix)
	clock = time.UnixMilli(1000)

	assert.Equal(t, "CUST2000", first)
	assert.Equal(t, "CUST2001", g.next(CustomerPrefix))
}

func TestIDGenerator_ObserveRaisesFloor(t *testing.T) {
	g := &idGenerator{now: func() time.Time { return time.UnixMilli(1000) }}

	g.observe(BookingPrefix, "BK5000")
	g.observe(BookingPrefix, "BK4000")
	g.observe(BookingPrefix, "legacy-id")
	g.observe(RoutePrefix, "SCD9000")

	assert.Equal(t, "BK5001", g.next(BookingPrefix))
}

func TestNew_SeedsIDsFromStoredRecords(t *testing.T) {
	ctx := context.Background()
	log := logger.NewWriterLogger(nil)
	c, err := store.NewCollections(store.NewMemoryKV(), log)
	require.NoError(t, err)
	future := time.Now().Add(24 * time.Hour).UnixMilli()
	require.NoError(t, store.Save(ctx, c, store.Bookings, []models.Booking{
		{BookingID: BookingPrefix + strconv.FormatInt(future, 10), ScheduleID: "SCD3001", SeatsBooked: []string{"6A"}, Status: models.BookingCancelled},
	}))

	repo := New(ctx, c, log)
	id, err := repo.UpdateBooking(ctx, models.Booking{ScheduleID: "SCD3001", SeatsBooked: []string{"6B"}})

	require.NoError(t, err)
	n, err := strconv.ParseInt(strings.TrimPrefix(id, BookingPrefix), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, n, future)
}
