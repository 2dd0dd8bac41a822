package sse

import (
	"context"
	"sync"
	"time"

	"ms-busbooking/internal/models"
)

// SeatEvent tells seat-map viewers that seats on a schedule changed hands.
type SeatEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"bookingId"`
	ScheduleID string    `json:"scheduleId"`
	Seats      []string  `json:"seats"`
	OccurredAt time.Time `json:"occurredAt"`
}

const (
	SeatsBooked   = "seats_booked"
	SeatsReleased = "seats_released"
)

const clientBuffer = 10

// SeatEventEmitter fans seat events out to the SSE clients of each schedule.
type SeatEventEmitter struct {
	mu      sync.RWMutex
	clients map[string][]chan SeatEvent
}

func NewSeatEventEmitter() *SeatEventEmitter {
	return &SeatEventEmitter{clients: make(map[string][]chan SeatEvent)}
}

// Subscribe registers a client for scheduleID until ctx is done, at which
// point the channel is closed.
func (e *SeatEventEmitter) Subscribe(ctx context.Context, scheduleID string) <-chan SeatEvent {
	ch := make(chan SeatEvent, clientBuffer)

	e.mu.Lock()
	e.clients[scheduleID] = append(e.clients[scheduleID], ch)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(scheduleID, ch)
	}()
	return ch
}

// Emit never blocks; a client whose buffer is full misses the event.
func (e *SeatEventEmitter) Emit(ev SeatEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, ch := range e.clients[ev.ScheduleID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (e *SeatEventEmitter) PublishBookingConfirmed(_ context.Context, b models.Booking) error {
	e.Emit(newSeatEvent(SeatsBooked, b))
	return nil
}

func (e *SeatEventEmitter) PublishBookingCancelled(_ context.Context, b models.Booking) error {
	e.Emit(newSeatEvent(SeatsReleased, b))
	return nil
}

func newSeatEvent(kind string, b models.Booking) SeatEvent {
	return SeatEvent{
		Type:       kind,
		BookingID:  b.BookingID,
		ScheduleID: b.ScheduleID,
		Seats:      b.SeatsBooked,
		OccurredAt: time.Now().UTC(),
	}
}

func (e *SeatEventEmitter) remove(scheduleID string, ch chan SeatEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[scheduleID]
	for i, c := range clients {
		if c == ch {
			e.clients[scheduleID] = append(clients[:i], clients[i+1:]...)
			close(ch)
			break
		}
	}
	if len(e.clients[scheduleID]) == 0 {
		delete(e.clients, scheduleID)
	}
}

// ClientCount returns the number of clients watching scheduleID.
func (e *SeatEventEmitter) ClientCount(scheduleID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[scheduleID])
}
