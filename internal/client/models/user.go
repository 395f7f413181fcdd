// Package models holds the client-side domain entities decoded from the
// backend's JSON wire format (snake_case keys).
package models

import "time"

// User is the signed-in account profile. It is an immutable value:
// a new User replaces the old one wholesale on login/register/profile
// refresh, individual fields are never mutated in place.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"full_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
