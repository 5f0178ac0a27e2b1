package models

import "time"

// Streak holds the current and best consecutive-day counts
type Streak struct {
	Current int `json:"streak_count"`
	Max     int `json:"max_streak"`
}

// Profile is the user record that carries the persisted streak state
type Profile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	StreakCount int       `json:"streak_count"`
	MaxStreak   int       `json:"max_streak"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Streak returns the persisted streak state of the profile
func (p Profile) Streak() Streak {
	return Streak{Current: p.StreakCount, Max: p.MaxStreak}
}
