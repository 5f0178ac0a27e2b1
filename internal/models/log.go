package models

import "time"

// LogEntry is a single dated completion record for a habit.
// Entries are append-only; the engine never edits or deletes them.
type LogEntry struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Date      string    `json:"date"` // ISO-8601 date or date-time
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}
