package models

import "time"

// Account represents a registered user identity.
type Account struct {
	ID         int64     `json:"id"`
	Handle     string    `json:"handle"`
	SecretHash string    `json:"-"` // Never expose this to the client
	CreatedAt  time.Time `json:"createdAt"`
}
