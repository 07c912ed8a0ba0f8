package documents

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// Document is the metadata of one uploaded file.
type Document struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Type       string    `json:"type" yaml:"type"`
	Year       int       `json:"year" yaml:"year"`
	Category   string    `json:"category" yaml:"category"`
	UploadDate time.Time `json:"upload_date" yaml:"upload_date"`
	Size       int64     `json:"size" yaml:"size"`
}

// Meta is what the caller supplies on upload. Category is an encoded
// address of the input screen the document belongs to ("employee-commute").
type Meta struct {
	Name     string
	Type     string
	Year     int
	Category string
}

// Progress is called with the number of bytes written so far.
type Progress func(written int64)

// EventType for store changes
type EventType int

const (
	EventAdded EventType = iota
	EventUpdated
	EventRemoved
)

// String returns the lowercase name of the event type.
func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "added"
	case EventUpdated:
		return "updated"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event represents a change in the document store.
type Event struct {
	Type     EventType
	ID       string
	Document *Document // nil for removals
	Time     time.Time
}
