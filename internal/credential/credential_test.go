package credential

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexoffice/booking-service/internal/domain"
)

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:        7,
		SpaceID:   "1",
		UserID:    "1",
		StartTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		Status:    domain.BookingStatusConfirmed,
	}
}

func TestFromBooking_EncodeDecode(t *testing.T) {
	payload := FromBooking(sampleBooking())
	assert.Equal(t, Payload{BookingID: "7", SpaceID: "1", UserID: "1", Date: "2024-01-01", Time: "09:00-17:00"}, payload)

	raw, err := payload.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"bookingId":"7","spaceId":"1","userId":"1","date":"2024-01-01","time":"09:00-17:00"}`, raw)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestFromBooking_MultiDayWindow(t *testing.T) {
	b := sampleBooking()
	b.EndTime = time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "09:00-2024-01-02T12:30", FromBooking(b).Time)
}

func TestEncode_IsDeterministic(t *testing.T) {
	a, err := FromBooking(sampleBooking()).Encode()
	require.NoError(t, err)
	b, err := FromBooking(sampleBooking()).Encode()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecode_RejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"bookingId":"1"}`, `{"bookingId":"1","spaceId":"1","userId":"1","date":"nope"}`} {
		_, err := Decode(raw)
		assert.ErrorIs(t, err, ErrInvalidPayload, raw)
	}
}

func TestEncoder_RendersQR(t *testing.T) {
	enc := NewEncoder(NewQRRenderer(128))

	cred, err := enc.Encode(sampleBooking())
	require.NoError(t, err)
	assert.NotEmpty(t, cred.Payload)
	assert.True(t, strings.HasPrefix(cred.Image, dataURLPrefix))

	img, err := enc.Render(cred.Payload)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 128, decoded.Bounds().Dx())
}

type failingRenderer struct{}

func (failingRenderer) DataURL(string) (string, error) { return "", errors.New("renderer down") }
func (failingRenderer) PNG(string) ([]byte, error)     { return nil, errors.New("renderer down") }

func TestEncoder_RendererFailure(t *testing.T) {
	_, err := NewEncoder(failingRenderer{}).Encode(sampleBooking())
	assert.Error(t, err)

	cred, err := NewEncoder(nil).Encode(sampleBooking())
	require.NoError(t, err)
	assert.Empty(t, cred.Image)
}
