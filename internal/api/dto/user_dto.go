package dto

import (
	"time"

	"github.com/flexoffice/booking-service/internal/domain"
)

// SessionRequest payload for POST /sessions. Password is accepted as an alias of secret.
type SessionRequest struct {
	Email    string `json:"email"`
	Secret   string `json:"secret"`
	Password string `json:"password"`
}

// CredentialSecret returns whichever secret field was supplied.
func (r SessionRequest) CredentialSecret() string {
	if r.Secret != "" {
		return r.Secret
	}
	return r.Password
}

// SessionResponse is returned on successful authentication.
type SessionResponse struct {
	Token       string      `json:"token"`
	SubjectID   string      `json:"subjectId"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Role        domain.Role `json:"role"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	ExpiresIn   int64       `json:"expiresIn"`
}

// SessionClaimsResponse describes the caller's current session.
type SessionClaimsResponse struct {
	SubjectID string      `json:"subjectId"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IssuedAt  time.Time   `json:"issuedAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// NewSessionClaimsResponse maps a session.
func NewSessionClaimsResponse(s domain.Session) SessionClaimsResponse {
	return SessionClaimsResponse{
		SubjectID: s.SubjectID,
		Email:     s.Email,
		Role:      s.Role,
		IssuedAt:  s.IssuedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
