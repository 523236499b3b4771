// Package credential derives the scannable access credential of a booking.
//
// The payload is plain JSON and carries no signature: anything scanning it
// must re-validate the booking with the service before granting access.
package credential

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/flexoffice/booking-service/internal/domain"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ErrInvalidPayload is returned when a scanned payload cannot be decoded.
var ErrInvalidPayload = errors.New("invalid credential payload")

// Payload is the canonical structure encoded into the QR code.
// Field order is fixed so encoding is deterministic.
type Payload struct {
	BookingID string `json:"bookingId"`
	SpaceID   string `json:"spaceId"`
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// FromBooking extracts the payload fields. Times are rendered in UTC.
func FromBooking(b *domain.Booking) Payload {
	start := b.StartTime.UTC()
	end := b.EndTime.UTC()

	endLabel := end.Format(clockLayout)
	if end.Format(dateLayout) != start.Format(dateLayout) {
		endLabel = end.Format(dateLayout + "T" + clockLayout)
	}

	return Payload{
		BookingID: strconv.FormatInt(b.ID, 10),
		SpaceID:   b.SpaceID,
		UserID:    b.UserID,
		Date:      start.Format(dateLayout),
		Time:      start.Format(clockLayout) + "-" + endLabel,
	}
}

// Encode serializes the payload into its compact string form.
func (p Payload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Decode parses a scanned payload back into its fields.
func Decode(raw string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, errors.Join(ErrInvalidPayload, err)
	}
	if p.BookingID == "" || p.SpaceID == "" || p.UserID == "" {
		return Payload{}, ErrInvalidPayload
	}
	if _, err := time.Parse(dateLayout, p.Date); err != nil {
		return Payload{}, errors.Join(ErrInvalidPayload, err)
	}
	return p, nil
}
