package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"` // Never expose this to the client
	Company      string  `json:"company"`
	Job          string  `json:"job"`
	TargetTime   float64 `json:"target_time"` // Expected hours per working day

	// Token and TokenExpiration are managed by the token service. The
	// expiration is authoritative: a stored token value alone says nothing
	// about validity.
	Token           string     `json:"-"`
	TokenExpiration *time.Time `json:"-"`

	CreatedAt time.Time `json:"-"`
}
