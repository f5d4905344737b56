package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// SleepStatus is the user-rated quality of one sleep session.
type SleepStatus string

const (
	StatusGood SleepStatus = "good"
	StatusFair SleepStatus = "fair"
	StatusPoor SleepStatus = "poor"
)

func (s SleepStatus) Valid() bool {
	return s == StatusGood || s == StatusFair || s == StatusPoor
}

// SleepRecord is one sleep session. Several may land on the same logical date
// (a night's sleep plus a nap); the aggregate sums their durations and takes
// the status of the longest session.
type SleepRecord struct {
	ID      snowflake.ID   `json:"id" gorm:"primaryKey"`
	UserID  snowflake.ID   `json:"user_id" gorm:"not null;index:ix_sleep_records_user_date,priority:1"`
	LogDate datatypes.Date `json:"log_date" gorm:"not null;index:ix_sleep_records_user_date,priority:2"`

	DurationMinutes int    `json:"duration_minutes" gorm:"not null"`
	Status          string `json:"status" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (SleepRecord) TableName() string { return "sleep_records" }
