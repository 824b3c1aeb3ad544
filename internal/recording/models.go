// Package recording stores test runs and the interactions made during them in PostgreSQL.
package recording

import "time"

const (
	StatusRunning = "running"
	StatusPassed  = "passed"
	StatusFailed  = "failed"
)

// Run is one session from start to quit.
type Run struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"type:text;not null" json:"name"`
	Browser   string     `gorm:"type:varchar(32);not null" json:"browser"`
	Status    string     `gorm:"type:varchar(16);not null;default:'running'" json:"status"`
	Error     string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Interaction is one recorded action of a run.
type Interaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RunID      uint      `gorm:"index;not null" json:"run_id"`
	Type       string    `gorm:"type:varchar(32);not null" json:"type"`
	Component  string    `gorm:"type:text" json:"component,omitempty"`
	Selector   string    `gorm:"type:text" json:"selector,omitempty"`
	Text       string    `gorm:"type:text" json:"text,omitempty"`
	Screenshot string    `gorm:"type:text" json:"screenshot,omitempty"`
	At         time.Time `gorm:"not null" json:"at"`
}
