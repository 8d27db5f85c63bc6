package models

import "time"

// MemoMaxLength is the longest memo accepted, in characters.
const MemoMaxLength = 65

// Memo is a short free-text note.
type Memo struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"-"`
	Content   string    `json:"content" validate:"required,max=65"`
	CreatedAt time.Time `json:"createdAt"` // Stamped by the server on creation
}
