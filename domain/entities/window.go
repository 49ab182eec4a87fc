package entities

import (
	"fmt"
	"time"
)

// DateLayout is the date format used by affiliate APIs and round keys
const DateLayout = "2006-01-02"

// Window is a contiguous accrual period of whole UTC days
type Window struct {
	Index int64     `json:"index"` // Periods elapsed since the anchor (negative before it)
	Start time.Time `json:"start"` // First day, midnight UTC
	End   time.Time `json:"end"`   // Last day (inclusive), midnight UTC
}

// StartDate returns the first day formatted as YYYY-MM-DD
func (w Window) StartDate() string {
	return w.Start.Format(DateLayout)
}

// EndDate returns the last day formatted as YYYY-MM-DD
func (w Window) EndDate() string {
	return w.End.Format(DateLayout)
}

// EndBoundary returns the instant the window closes (midnight after the last day)
func (w Window) EndBoundary() time.Time {
	return w.End.AddDate(0, 0, 1)
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.EndBoundary())
}

// Key identifies the window, e.g. "2025-08-11_2025-08-24"
func (w Window) Key() string {
	return fmt.Sprintf("%s_%s", w.StartDate(), w.EndDate())
}
