package dto

import "github.com/flexoffice/booking-service/internal/domain"

// SpaceResponse represents a bookable space.
type SpaceResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Capacity  int      `json:"capacity"`
	Equipment []string `json:"equipment"`
	Available bool     `json:"available"`
}

// NewSpaceResponse maps a space.
func NewSpaceResponse(s *domain.Space) SpaceResponse {
	equipment := s.Equipment
	if equipment == nil {
		equipment = []string{}
	}
	return SpaceResponse{
		ID:        s.ID,
		Name:      s.Name,
		Type:      s.Type,
		Capacity:  s.Capacity,
		Equipment: equipment,
		Available: s.Available,
	}
}
