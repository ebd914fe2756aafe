package models

import (
	"fmt"
	"time"
)

// NewEntry returns an unpinned entry stamped with createdAt (Unix ms).
func NewEntry(value string, createdAt int64) Entry {
	return Entry{Value: value, CreatedAt: createdAt}
}

// Time converts CreatedAt to a time.Time in the local zone.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.CreatedAt)
}

// Clock formats CreatedAt as a 24-hour HH:MM:SS wall clock in loc.
func (e Entry) Clock(loc *time.Location) string {
	t := e.Time()
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("15:04:05")
}

// String renders the entry as one list row.
func (e Entry) String() string {
	mark := " "
	if e.Pinned {
		mark = "*"
	}
	return fmt.Sprintf("%s %s  %s", mark, e.Value, e.Clock(nil))
}
