package models

// Todo is a daily to-do item. Today, Tomorrow and Everyday are independent
// flags in storage; clients set at most one of them.
type Todo struct {
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"-"`
	Content   string `json:"content" validate:"required"`
	Today     bool   `json:"today"`
	Tomorrow  bool   `json:"tomorrow"`
	Everyday  bool   `json:"everyday"`
	Completed bool   `json:"completed"`
}

// TodoSummary is the completion ratio of the todos on today's list
// (today or everyday).
type TodoSummary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Rate      int `json:"rate"` // Rounded percentage, 0 when Total is 0
}
