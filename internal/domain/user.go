// Package domain defines the core types and interfaces for the Lumière
// client. All other packages depend on domain; domain depends on nothing.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SessionKey is the secure-storage key holding the serialized User.
const SessionKey = "user_session"

// User is the signed-in person as returned by the backend.
type User struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Preferences json.RawMessage `json:"preferences,omitempty"` // any JSON value, kept verbatim
}

// Valid reports whether the user carries an identifier.
func (u *User) Valid() bool {
	return u != nil && strings.TrimSpace(u.ID) != ""
}

// Clone returns a copy that shares nothing mutable with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Preferences != nil {
		c.Preferences = append(json.RawMessage(nil), u.Preferences...)
	}
	return &c
}

// MarshalSession serializes a user into a session record.
func MarshalSession(u *User) (string, error) {
	if !u.Valid() {
		return "", fmt.Errorf("marshal session: %w", ErrInvalidInput)
	}
	b, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	return string(b), nil
}

// UnmarshalSession parses a session record. A record that is not JSON,
// or that has no user id, is rejected.
func UnmarshalSession(record string) (*User, error) {
	var u User
	if err := json.Unmarshal([]byte(record), &u); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if !u.Valid() {
		return nil, fmt.Errorf("unmarshal session: missing user id")
	}
	return &u, nil
}
