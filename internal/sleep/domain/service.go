package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidUser     = errors.New("invalid_user")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidDuration = errors.New("invalid_duration")
	ErrInvalidStatus   = errors.New("invalid_status")
)

// Service is the cascade coordinator for sleep records. Sleep is not additive
// the way nutrition is, so instead of signed deltas every mutation recomputes
// the date's summary from the surviving records and overwrites the aggregate.
type Service interface {
	Save(ctx context.Context, req SaveRequest) (*MutationResult, error)
	Delete(ctx context.Context, userID, id snowflake.ID) (*MutationResult, error)
	ListByDate(ctx context.Context, userID snowflake.ID, date time.Time) ([]SleepRecord, error)
}

type SaveRequest struct {
	// ID is zero for a new record and set when editing an existing one.
	ID              snowflake.ID
	UserID          snowflake.ID
	RecordedAt      time.Time
	DurationMinutes int
	Status          SleepStatus
}

type MutationResult struct {
	Record   *SleepRecord             `json:"record,omitempty"`
	DailyLog *dailylogdomain.DailyLog `json:"daily_log"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *SleepRecord) error
	Update(ctx context.Context, db *gorm.DB, rec *SleepRecord) error
	Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*SleepRecord, error)
	ListByDate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) ([]SleepRecord, error)
}
