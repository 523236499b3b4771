package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/flexoffice/booking-service/internal/api/http"
	"github.com/flexoffice/booking-service/internal/api/http/handlers"
	"github.com/flexoffice/booking-service/internal/auth"
	"github.com/flexoffice/booking-service/internal/config"
	"github.com/flexoffice/booking-service/internal/credential"
	"github.com/flexoffice/booking-service/internal/events"
	"github.com/flexoffice/booking-service/internal/observability"
	"github.com/flexoffice/booking-service/internal/persistence"
	"github.com/flexoffice/booking-service/internal/repository"
	"github.com/flexoffice/booking-service/internal/service"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type bookingBody struct {
	ID         string `json:"id"`
	SpaceID    string `json:"spaceId"`
	SpaceName  string `json:"spaceName"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	Status     string `json:"status"`
	Credential *struct {
		Payload string `json:"payload"`
		QRCode  string `json:"qrCode"`
	} `json:"credential"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	users := repository.NewMemoryUserRepository()
	spaces := repository.NewMemorySpaceRepository()
	require.NoError(t, persistence.Seed(ctx, users, spaces,
		persistence.DemoUsers(), persistence.DemoSpaces(), bcrypt.MinCost, logger))

	authService := service.NewAuthService(config.AuthConfig{JWTSecret: "router-secret", SessionTTLMinutes: 24 * 60},
		service.AuthDependencies{UserRepo: users, Logger: logger})
	catalog := service.NewSpaceCatalog(spaces)
	ledger := service.NewReservationLedger(repository.NewMemoryBookingRepository(), catalog, service.LedgerOptions{})
	bookings := service.NewBookingService(service.BookingDependencies{
		Ledger:     ledger,
		Catalog:    catalog,
		Encoder:    credential.NewEncoder(credential.NewQRRenderer(64)),
		Users:      users,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     logger,
	})

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("flexoffice-booking", "test", nil, nil, metrics),
		Sessions:       handlers.NewSessionsHandler(authService),
		Spaces:         handlers.NewSpacesHandler(catalog, bookings),
		Bookings:       handlers.NewBookingsHandler(bookings),
		AuthMiddleware: auth.NewAuthMiddleware(authService),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode(t *testing.T, raw []byte, out any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	if out != nil && env.Data != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func login(t *testing.T, app *fiber.App, email, secret string) string {
	t.Helper()
	resp, raw := call(t, app, http.MethodPost, "/sessions", "", map[string]string{"email": email, "secret": secret})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var session struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expiresIn"`
	}
	decode(t, raw, &session)
	require.NotEmpty(t, session.Token)
	require.Equal(t, int64(24*60*60), session.ExpiresIn)
	return session.Token
}

func TestRoutes_DemoScenario(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "demo@flexoffice.com", "demo123")

	resp, raw := call(t, app, http.MethodGet, "/spaces", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var spaces []struct {
		ID        string `json:"id"`
		Available bool   `json:"available"`
	}
	decode(t, raw, &spaces)
	assert.Len(t, spaces, 5)

	resp, raw = call(t, app, http.MethodPost, "/bookings", token, map[string]string{
		"spaceId":   "1",
		"startTime": "2024-01-01T09:00:00Z",
		"endTime":   "2024-01-01T17:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created bookingBody
	decode(t, raw, &created)
	assert.Equal(t, "1", created.ID)
	assert.Equal(t, "confirmed", created.Status)
	assert.Equal(t, "Bureau 101", created.SpaceName)
	assert.Equal(t, "Amal Benjouida", created.UserName)
	require.NotNil(t, created.Credential)

	payload, err := credential.Decode(created.Credential.Payload)
	require.NoError(t, err)
	assert.Equal(t, "1", payload.SpaceID)
	assert.Equal(t, "09:00-17:00", payload.Time)

	resp, raw = call(t, app, http.MethodGet, "/bookings/mine", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []bookingBody
	decode(t, raw, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
	assert.Equal(t, "Bureau 101", mine[0].SpaceName)
	assert.Equal(t, "Amal Benjouida", mine[0].UserName)

	resp, raw = call(t, app, http.MethodDelete, "/bookings/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var cancelled bookingBody
	decode(t, raw, &cancelled)
	assert.Equal(t, "cancelled", cancelled.Status)

	resp, _ = call(t, app, http.MethodDelete, "/bookings/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = call(t, app, http.MethodGet, "/bookings/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched bookingBody
	decode(t, raw, &fetched)
	assert.Equal(t, "cancelled", fetched.Status)
}

func TestRoutes_DateAndClockTimes(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "demo@flexoffice.com", "demo123")

	resp, raw := call(t, app, http.MethodPost, "/bookings", token, map[string]string{
		"spaceId":   "2",
		"date":      "2024-03-04",
		"startTime": "10:00",
		"endTime":   "11:30",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created bookingBody
	decode(t, raw, &created)
	payload, err := credential.Decode(created.Credential.Payload)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", payload.Date)
	assert.Equal(t, "10:00-11:30", payload.Time)
}

func TestRoutes_Errors(t *testing.T) {
	app := newTestApp(t)
	demo := login(t, app, "demo@flexoffice.com", "demo123")
	manager := login(t, app, "manager@flexoffice.com", "manager123")

	resp, _ := call(t, app, http.MethodPost, "/bookings", manager, map[string]string{
		"spaceId": "1", "startTime": "2024-01-01T09:00:00Z", "endTime": "2024-01-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		code   string
	}{
		{"wrong secret", http.MethodPost, "/sessions", "", map[string]string{"email": "demo@flexoffice.com", "secret": "nope"}, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"empty secret", http.MethodPost, "/sessions", "", map[string]string{"email": "demo@flexoffice.com", "secret": ""}, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"missing email", http.MethodPost, "/sessions", "", map[string]string{"secret": "demo123"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"missing token", http.MethodGet, "/bookings/mine", "", nil, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"garbage token", http.MethodGet, "/spaces", "not-a-jwt", nil, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"unknown space", http.MethodGet, "/spaces/99", demo, nil, http.StatusNotFound, "NOT_FOUND"},
		{"unavailable space", http.MethodPost, "/bookings", demo, map[string]string{
			"spaceId": "5", "startTime": "2024-01-01T09:00:00Z", "endTime": "2024-01-01T10:00:00Z",
		}, http.StatusBadRequest, "SPACE_UNAVAILABLE"},
		{"inverted window", http.MethodPost, "/bookings", demo, map[string]string{
			"spaceId": "1", "startTime": "2024-01-01T10:00:00Z", "endTime": "2024-01-01T09:00:00Z",
		}, http.StatusBadRequest, "INVALID_TIME_RANGE"},
		{"unparseable time", http.MethodPost, "/bookings", demo, map[string]string{
			"spaceId": "1", "startTime": "tomorrow", "endTime": "later",
		}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"other user's booking", http.MethodGet, "/bookings/1", demo, nil, http.StatusForbidden, "FORBIDDEN"},
		{"cancel other user's booking", http.MethodDelete, "/bookings/1", demo, nil, http.StatusForbidden, "FORBIDDEN"},
		{"non-numeric booking id", http.MethodGet, "/bookings/abc", demo, nil, http.StatusNotFound, "NOT_FOUND"},
		{"unknown booking", http.MethodGet, "/bookings/42", demo, nil, http.StatusNotFound, "NOT_FOUND"},
		{"space bookings as employee", http.MethodGet, "/spaces/1/bookings", demo, nil, http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := call(t, app, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(raw))
			env := decode(t, raw, nil)
			require.NotNil(t, env.Error, string(raw))
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestRoutes_ManagerSeesSpaceBookings(t *testing.T) {
	app := newTestApp(t)
	demo := login(t, app, "demo@flexoffice.com", "demo123")
	manager := login(t, app, "manager@flexoffice.com", "manager123")

	resp, _ := call(t, app, http.MethodPost, "/bookings", demo, map[string]string{
		"spaceId": "3", "startTime": "2024-01-01T09:00:00Z", "endTime": "2024-01-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := call(t, app, http.MethodGet, "/spaces/3/bookings", manager, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var list []bookingBody
	decode(t, raw, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].UserID)
	assert.Equal(t, "Amal Benjouida", list[0].UserName)
	assert.Equal(t, "Bureau 205", list[0].SpaceName)
}

func TestRoutes_QRCode(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "demo@flexoffice.com", "demo123")

	resp, _ := call(t, app, http.MethodPost, "/bookings", token, map[string]string{
		"spaceId": "1", "startTime": "2024-01-01T09:00:00Z", "endTime": "2024-01-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := call(t, app, http.MethodGet, "/bookings/1/qr", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	_, err := png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}

func TestRoutes_CurrentSessionAndHealth(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "manager@flexoffice.com", "manager123")

	resp, raw := call(t, app, http.MethodGet, "/sessions/current", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var current struct {
		SubjectID string `json:"subjectId"`
		Role      string `json:"role"`
	}
	decode(t, raw, &current)
	assert.Equal(t, "2", current.SubjectID)
	assert.Equal(t, "manager", current.Role)

	resp, _ = call(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, raw = call(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), `"postgres":"disabled"`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
