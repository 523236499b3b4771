package dto

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/flexoffice/booking-service/internal/domain"
)

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// CreateBookingRequest payload. StartTime and EndTime are instants, or clock
// times (HH:MM) when Date is set.
type CreateBookingRequest struct {
	SpaceID   string `json:"spaceId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Window resolves the requested time window. Instants without a zone are UTC.
func (r CreateBookingRequest) Window() (time.Time, time.Time, error) {
	if strings.TrimSpace(r.Date) != "" {
		start, err := time.Parse("2006-01-02 15:04", r.Date+" "+r.StartTime)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("startTime must be HH:MM when date is set")
		}
		end, err := time.Parse("2006-01-02 15:04", r.Date+" "+r.EndTime)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("endTime must be HH:MM when date is set")
		}
		return start, end, nil
	}

	start, err := parseInstant(r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("startTime must be an ISO-8601 instant")
	}
	end, err := parseInstant(r.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("endTime must be an ISO-8601 instant")
	}
	return start, end, nil
}

func parseInstant(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized time format")
}

// CredentialResponse carries the access credential of a booking.
type CredentialResponse struct {
	Payload string `json:"payload"`
	QRCode  string `json:"qrCode,omitempty"`
}

// Labeler resolves display names for ids referenced by a booking.
type Labeler interface {
	SpaceName(id string) string
	UserName(id string) string
}

// BookingResponse represents a booking.
type BookingResponse struct {
	ID         string               `json:"id"`
	SpaceID    string               `json:"spaceId"`
	SpaceName  string               `json:"spaceName"`
	UserID     string               `json:"userId"`
	UserName   string               `json:"userName"`
	StartTime  time.Time            `json:"startTime"`
	EndTime    time.Time            `json:"endTime"`
	Status     domain.BookingStatus `json:"status"`
	Credential *CredentialResponse  `json:"credential,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
}

// NewBookingResponse maps a booking, naming its space and user through labels.
func NewBookingResponse(b *domain.Booking, labels Labeler) BookingResponse {
	resp := BookingResponse{
		ID:        strconv.FormatInt(b.ID, 10),
		SpaceID:   b.SpaceID,
		SpaceName: labels.SpaceName(b.SpaceID),
		UserID:    b.UserID,
		UserName:  labels.UserName(b.UserID),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
	if b.Credential != nil {
		resp.Credential = &CredentialResponse{Payload: b.Credential.Payload, QRCode: b.Credential.Image}
	}
	return resp
}

// NewBookingList maps bookings, never returning nil.
func NewBookingList(bookings []domain.Booking, labels Labeler) []BookingResponse {
	items := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, NewBookingResponse(&bookings[i], labels))
	}
	return items
}
