package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidUser     = errors.New("invalid_user")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidWeight   = errors.New("invalid_weight")
	ErrInvalidBodyFat  = errors.New("invalid_body_fat")
	ErrProfileRequired = errors.New("profile_required")
)

// Service is the cascade coordinator for body-composition records. Save and
// Delete run the full cascade atomically: persist the record, recompute the
// metabolism snapshot, apply the aggregate deltas, and refresh the profile's
// current state when the mutation touches the user's newest record.
type Service interface {
	Save(ctx context.Context, req SaveRequest) (*MutationResult, error)
	Delete(ctx context.Context, userID, id snowflake.ID) (*MutationResult, error)
	WeightHistory(ctx context.Context, userID snowflake.ID, days int) ([]BodyRecord, error)
}

type SaveRequest struct {
	UserID       snowflake.ID
	RecordedAt   time.Time
	WeightKg     decimal.Decimal
	BodyFatPct   *decimal.Decimal
	MuscleMassKg *decimal.Decimal
}

// MutationResult returns everything the caller's UI needs to refresh after a
// cascade: the record (nil after delete), the updated aggregate, and the
// profile carrying the current-state snapshot.
type MutationResult struct {
	Record       *BodyRecord              `json:"record,omitempty"`
	Snapshot     *MetabolismSnapshot      `json:"snapshot,omitempty"`
	DailyLog     *dailylogdomain.DailyLog `json:"daily_log"`
	CurrentState *profiledomain.Profile   `json:"current_state,omitempty"`
}

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, rec *BodyRecord) error
	Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*BodyRecord, error)
	FindByDate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (*BodyRecord, error)
	FindLatest(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*BodyRecord, error)
	FindMostRecentBefore(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (*BodyRecord, error)
	ListRange(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) ([]BodyRecord, error)

	UpsertSnapshot(ctx context.Context, db *gorm.DB, snap *MetabolismSnapshot) error
	DeleteSnapshot(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) error
	FindSnapshot(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (*MetabolismSnapshot, error)
}
