package domain

import "time"

// Session is the identity carried by a signed token. It is never persisted.
type Session struct {
	TokenID   string
	SubjectID string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
