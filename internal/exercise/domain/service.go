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
	ErrNotFound         = errors.New("not_found")
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidType      = errors.New("invalid_exercise_type")
	ErrInvalidIntensity = errors.New("invalid_intensity")
	ErrInvalidDuration  = errors.New("invalid_duration")
)

// Service is the cascade coordinator for exercise records. A save estimates
// calories from the MET table, the intensity tier and the user's current
// weight, persists the record and applies the exercise delta atomically.
type Service interface {
	Save(ctx context.Context, req SaveRequest) (*MutationResult, error)
	Delete(ctx context.Context, userID, id snowflake.ID) (*MutationResult, error)
	ListByDate(ctx context.Context, userID snowflake.ID, date time.Time) ([]ExerciseRecord, error)
}

type SaveRequest struct {
	// ID is zero for a new record and set when editing an existing one.
	ID              snowflake.ID
	UserID          snowflake.ID
	RecordedAt      time.Time
	ExerciseType    ExerciseType
	Intensity       Intensity
	DurationMinutes int
}

type MutationResult struct {
	Record   *ExerciseRecord          `json:"record,omitempty"`
	DailyLog *dailylogdomain.DailyLog `json:"daily_log"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *ExerciseRecord) error
	Update(ctx context.Context, db *gorm.DB, rec *ExerciseRecord) error
	Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*ExerciseRecord, error)
	ListByDate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) ([]ExerciseRecord, error)
}
