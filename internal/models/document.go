package models

// Document is a named, arbitrary-length markdown text.
type Document struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"-"`
	Name    string `json:"name"    validate:"required,max=255"`
	Content string `json:"content"`
}
