package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexoffice/booking-service/internal/domain"
)

var demoUser = &domain.User{ID: "1", Email: "demo@flexoffice.com", Role: domain.RoleEmployee}

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestGenerateAndParseToken(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	tm := NewTokenManager("test-secret", 24*time.Hour).WithClock(fixedClock(&now))

	token, issued, err := tm.GenerateToken(demoUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, now.Add(24*time.Hour), issued.ExpiresAt)

	session, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1", session.SubjectID)
	assert.Equal(t, "demo@flexoffice.com", session.Email)
	assert.Equal(t, domain.RoleEmployee, session.Role)
	assert.Equal(t, issued.TokenID, session.TokenID)
	assert.True(t, session.IssuedAt.Equal(now))
	assert.True(t, session.ExpiresAt.Equal(issued.ExpiresAt))
}

func TestParseToken_ExpiresAfterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	tm := NewTokenManager("test-secret", 24*time.Hour).WithClock(fixedClock(&now))

	token, _, err := tm.GenerateToken(demoUser)
	require.NoError(t, err)

	now = now.Add(23 * time.Hour)
	_, err = tm.ParseToken(token)
	require.NoError(t, err)

	now = now.Add(time.Hour + time.Second)
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_DoesNotRefreshExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	tm := NewTokenManager("test-secret", time.Hour).WithClock(fixedClock(&now))

	token, issued, err := tm.GenerateToken(demoUser)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		now = now.Add(10 * time.Minute)
		session, err := tm.ParseToken(token)
		require.NoError(t, err)
		assert.True(t, session.ExpiresAt.Equal(issued.ExpiresAt))
	}
}

func TestParseToken_RejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, _, err := issuer.GenerateToken(demoUser)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsMalformed(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	for _, raw := range []string{"", "abc", "a.b.c"} {
		_, err := tm.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("demo123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "demo123", hash)
	assert.NoError(t, ComparePassword(hash, "demo123"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
