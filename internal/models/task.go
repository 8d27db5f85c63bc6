package models

import "time"

// TaskDone is the status of a fully completed task.
const TaskDone = 100

// Task is a piece of work with a completion percentage and a deadline.
type Task struct {
	ID       int64     `json:"id"`
	OwnerID  int64     `json:"-"`
	Content  string    `json:"content"  validate:"required"`
	Status   int       `json:"status"   validate:"min=0,max=100"`
	Deadline time.Time `json:"deadline" validate:"required"`
}

// Done reports whether the task is fully completed.
func (t Task) Done() bool {
	return t.Status == TaskDone
}
