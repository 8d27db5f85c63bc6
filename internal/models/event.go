package models

import "time"

// Event is a calendar entry.
type Event struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"-"`
	Title     string    `json:"title"     validate:"required"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime"   validate:"required,gtefield=StartTime"`
}
