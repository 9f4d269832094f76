// Package auth provides lightweight session identity. A session is a
// base64-encoded uuid issued on first visit; favorites sync and explanation
// rate limiting key off it.
package auth

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const cookieName = "session"

type Session struct {
	ID    string
	Token string
}

// GetSession returns the session from the request cookie
func GetSession(r *http.Request) (*Session, error) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, errors.New("session not found")
	}

	return ParseToken(c.Value)
}

// TrySession returns the session if present, or nil for anonymous requests
func TrySession(r *http.Request) *Session {
	sess, err := GetSession(r)
	if err != nil {
		return nil
	}
	return sess
}

// EnsureSession returns the request session, issuing a new one via Set-Cookie
// when the request carries none.
func EnsureSession(w http.ResponseWriter, r *http.Request) *Session {
	if sess := TrySession(r); sess != nil {
		return sess
	}
	tk := GenerateToken()
	sess, _ := ParseToken(tk)
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tk,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// ParseToken decodes and validates a session token
func ParseToken(tk string) (*Session, error) {
	dec, err := base64.StdEncoding.DecodeString(tk)
	if err != nil {
		return nil, errors.New("invalid session")
	}

	id, err := uuid.Parse(string(dec))
	if err != nil {
		return nil, errors.New("invalid session")
	}

	return &Session{
		ID:    id.String(),
		Token: tk,
	}, nil
}

// GenerateToken creates a new session token
func GenerateToken() string {
	id := uuid.New().String()
	return base64.StdEncoding.EncodeToString([]byte(id))
}

// ValidateToken checks a session token
func ValidateToken(tk string) error {
	_, err := ParseToken(tk)
	return err
}
