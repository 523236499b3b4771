package credential

import (
	"fmt"

	"github.com/flexoffice/booking-service/internal/domain"
)

// Renderer produces an image form of a payload.
type Renderer interface {
	DataURL(payload string) (string, error)
	PNG(payload string) ([]byte, error)
}

// Encoder derives access credentials. It holds no booking state.
type Encoder struct {
	renderer Renderer
}

// NewEncoder builds an encoder. A nil renderer yields payload-only credentials.
func NewEncoder(renderer Renderer) *Encoder {
	return &Encoder{renderer: renderer}
}

// Encode derives the credential for b.
func (e *Encoder) Encode(b *domain.Booking) (*domain.AccessCredential, error) {
	payload, err := FromBooking(b).Encode()
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	credential := &domain.AccessCredential{Payload: payload}
	if e.renderer == nil {
		return credential, nil
	}
	image, err := e.renderer.DataURL(payload)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	credential.Image = image
	return credential, nil
}

// Render returns the PNG image for an already encoded payload.
func (e *Encoder) Render(payload string) ([]byte, error) {
	if e.renderer == nil {
		return nil, fmt.Errorf("no renderer configured")
	}
	return e.renderer.PNG(payload)
}
