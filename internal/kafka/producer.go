package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/models"

	"github.com/segmentio/kafka-go"
)

// Event types carried in BookingEvent.Type.
const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
)

// BookingEvent is the payload streamed for every booking state change.
type BookingEvent struct {
	Type       string         `json:"type"`
	BookingID  string         `json:"bookingId"`
	ScheduleID string         `json:"scheduleId"`
	CustomerID string         `json:"customerId,omitempty"`
	Seats      []string       `json:"seats"`
	TotalFare  int            `json:"totalFare"`
	Status     string         `json:"status"`
	OccurredAt time.Time      `json:"occurredAt"`
	Booking    models.Booking `json:"booking"`
}

func NewBookingEvent(eventType string, b models.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.BookingID,
		ScheduleID: b.ScheduleID,
		CustomerID: b.CustomerID,
		Seats:      b.SeatsBooked,
		TotalFare:  b.TotalFare,
		Status:     string(b.Status),
		OccurredAt: time.Now().UTC(),
		Booking:    b,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Topics struct {
	BookingConfirmed string
	BookingCancelled string
}

func (t Topics) All() []string {
	return []string{t.BookingConfirmed, t.BookingCancelled}
}

// Producer writes booking events keyed by booking id, so every event of one
// booking lands on the same partition.
type Producer struct {
	Writer messageWriter
	Topics Topics
	Logger *logger.Logger
}

func NewProducer(brokers []string, topics Topics, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	return &Producer{Writer: writer, Topics: topics, Logger: log}
}

// PublishBookingConfirmed streams a confirmed booking to Kafka
func (p *Producer) PublishBookingConfirmed(ctx context.Context, b models.Booking) error {
	return p.publish(ctx, p.Topics.BookingConfirmed, NewBookingEvent(EventBookingConfirmed, b))
}

// PublishBookingCancelled streams a cancellation to Kafka
func (p *Producer) PublishBookingCancelled(ctx context.Context, b models.Booking) error {
	return p.publish(ctx, p.Topics.BookingCancelled, NewBookingEvent(EventBookingCancelled, b))
}

func (p *Producer) publish(ctx context.Context, topic string, event BookingEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	p.Logger.LogKafka("PUBLISH", topic, event.BookingID)

	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.BookingID),
		Value: msgBytes,
	})
	if err != nil {
		p.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish %s for %s: %v", event.Type, event.BookingID, err))
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
