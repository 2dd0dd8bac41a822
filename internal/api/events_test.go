package api_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ms-busbooking/internal/api"
	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/repository"
	"ms-busbooking/internal/sse"
	"ms-busbooking/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventServer(t *testing.T, events *sse.SeatEventEmitter) *httptest.Server {
	t.Helper()
	log := logger.NewWriterLogger(nil)
	c, err := store.NewCollections(store.NewMemoryKV(), log)
	require.NoError(t, err)
	h := api.NewHandler(repository.New(context.Background(), c, log), nil, nil, log, 2)
	h.Events = events
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

// readEvent returns the event name and data line of the next SSE frame.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "":
			return name, data
		}
	}
}

func TestSeatEvents_Stream(t *testing.T) {
	events := sse.NewSeatEventEmitter()
	srv := newEventServer(t, events)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/schedules/SCD3001/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	r := bufio.NewReader(resp.Body)
	name, data := readEvent(t, r)
	assert.Equal(t, "connected", name)
	assert.Contains(t, data, "SCD3001")

	events.Emit(sse.SeatEvent{Type: sse.SeatsBooked, BookingID: "BK1", ScheduleID: "SCD3001", Seats: []string{"4A"}})

	name, data = readEvent(t, r)
	assert.Equal(t, sse.SeatsBooked, name)
	assert.Contains(t, data, `"seats":["4A"]`)
}

func TestSeatEvents_UnknownScheduleIs404(t *testing.T) {
	srv := newEventServer(t, sse.NewSeatEventEmitter())

	status, _ := call(t, http.MethodGet, srv.URL+"/api/schedules/SCD0/events", nil)

	assert.Equal(t, http.StatusNotFound, status)
}

func TestSeatEvents_DisabledIs404(t *testing.T) {
	srv := newEventServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/schedules/SCD3001/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
