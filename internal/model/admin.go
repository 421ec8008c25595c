package model

import "time"

// AdminCredentialID is the fixed primary key of the singleton credential row.
const AdminCredentialID = 1

// AdminCredential is the one-and-only admin password record.
type AdminCredential struct {
	PasswordHash string
	CreatedAt    time.Time
}

// AdminState describes whether the admin password has been set.
type AdminState int

const (
	// AdminUninitialized means no credential row exists; setup is open.
	AdminUninitialized AdminState = iota
	// AdminActive means the credential row exists; Basic auth is required.
	AdminActive
)

// String implements fmt.Stringer.
func (s AdminState) String() string {
	switch s {
	case AdminUninitialized:
		return "uninitialized"
	case AdminActive:
		return "active"
	default:
		return "unknown"
	}
}
