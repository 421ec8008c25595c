// Package model defines domain entities for the application.
package model

import "time"

// Field limits for signups.
const (
	MaxNameLength  = 100
	MaxEmailLength = 254
)

// Signup is a stored subscriber record.
// ID and CreatedAt are assigned by the store.
type Signup struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
