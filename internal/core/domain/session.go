package domain

import "time"

// Session is the single process-wide authenticated context. At most one
// exists at a time; opening a new one supersedes the old completely.
type Session struct {
	Identity   Identity  `json:"identity"`
	Role       Role      `json:"role"`
	LoggedInAt time.Time `json:"logged_in_at"`
}
