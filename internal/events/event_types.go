package events

import (
	"time"

	"github.com/flexoffice/booking-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingCancelled EventType = "booking_cancelled"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	BookingID int64       `json:"booking_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	SpaceID       string    `json:"space_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	HasCredential bool      `json:"has_credential"`
}

// BookingCancelledPayload payload.
type BookingCancelledPayload struct {
	SpaceID        string               `json:"space_id"`
	PreviousStatus domain.BookingStatus `json:"previous_status"`
}
