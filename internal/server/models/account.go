// Package models defines the persisted records of the marketplace core.
package models

import "time"

// Role separates regular accounts from administrators.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Account is the identity record a session token authenticates and a rating
// targets. Reputation is a derived value: it always equals the mean of all
// ratings received and is recomputed eagerly by the rating service.
// ResetToken/ResetTokenExpires are mutated only by the reset-token service.
type Account struct {
	ID           int64
	Handle       string
	PasswordHash string
	Email        string
	Phone        string
	Role         Role
	Reputation   float64
	Boosted      bool

	ResetToken        *string
	ResetTokenExpires *time.Time

	CreatedAt time.Time
}
