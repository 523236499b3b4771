package domain

import "time"

// BookingStatus enumerates reservation lifecycle states.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// AccessCredential is the scannable artifact derived from a booking.
type AccessCredential struct {
	Payload string
	Image   string
}

// Booking is a claim on a space for a time window, owned by one user.
type Booking struct {
	ID         int64
	SpaceID    string
	UserID     string
	StartTime  time.Time
	EndTime    time.Time
	Status     BookingStatus
	Credential *AccessCredential
	CreatedAt  time.Time
}

// Overlaps reports whether b occupies any instant of [start, end).
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && start.Before(b.EndTime)
}
