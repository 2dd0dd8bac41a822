package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func newTestProducer(w *recordingWriter) *Producer {
	return &Producer{
		Writer: w,
		Topics: Topics{BookingConfirmed: "bookings.confirmed", BookingCancelled: "bookings.cancelled"},
		Logger: logger.NewWriterLogger(nil),
	}
}

func TestPublishBookingConfirmed(t *testing.T) {
	w := &recordingWriter{}
	p := newTestProducer(w)
	b := models.Booking{BookingID: "BK1", ScheduleID: "SCD1", SeatsBooked: []string{"1A"}, TotalFare: 1000, Status: models.BookingConfirmed}

	require.NoError(t, p.PublishBookingConfirmed(context.Background(), b))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "bookings.confirmed", msg.Topic)
	assert.Equal(t, "BK1", string(msg.Key))

	var event BookingEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, EventBookingConfirmed, event.Type)
	assert.Equal(t, []string{"1A"}, event.Seats)
	assert.Equal(t, "Confirmed", event.Status)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestPublishBookingCancelled_WriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := newTestProducer(w)

	err := p.PublishBookingCancelled(context.Background(), models.Booking{BookingID: "BK2"})

	assert.ErrorContains(t, err, "bookings.cancelled")
	assert.ErrorContains(t, err, "broker down")
}

func TestTopicsAllAndClose(t *testing.T) {
	w := &recordingWriter{}
	p := newTestProducer(w)

	assert.Equal(t, []string{"bookings.confirmed", "bookings.cancelled"}, p.Topics.All())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
