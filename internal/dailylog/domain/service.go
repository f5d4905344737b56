package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidUser = errors.New("invalid_user")
	ErrInvalidDate = errors.New("invalid_date")
)

// Service manages the DailyLog aggregate. Every mutating method takes the
// caller's *gorm.DB so a cascade coordinator can run all of its writes in one
// transaction; passing a tx keeps delta application atomic with the record
// write that caused it.
type Service interface {
	GetOrCreate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (*DailyLog, error)
	ApplyNutritionDelta(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, delta NutritionDelta) (*DailyLog, error)
	ApplyExerciseDelta(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, delta ExerciseDelta) (*DailyLog, error)
	ApplyBodySnapshot(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, weightKg, bodyFatPct *decimal.Decimal) (*DailyLog, error)
	ApplySleep(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, summary SleepSummary) (*DailyLog, error)
	ApplyMetabolism(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, bmr int64, tdee decimal.Decimal) (*DailyLog, error)
	ApplySteps(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, steps *int) (*DailyLog, error)

	Get(ctx context.Context, userID snowflake.ID, date time.Time) (*DailyLog, error)
	Range(ctx context.Context, userID snowflake.ID, from, to time.Time) ([]DailyLog, error)
	Rebuild(ctx context.Context, userID snowflake.ID, date time.Time) (*DailyLog, error)
}

// Repository persists DailyLog rows. Methods take the caller's handle so they
// participate in the caller's transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, log *DailyLog) error
	Update(ctx context.Context, db *gorm.DB, log *DailyLog) error
	Find(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (*DailyLog, error)
	FindRange(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) ([]DailyLog, error)
}

// MetabolismProvider supplies the user's current BMR/TDEE for seeding new
// aggregates. Implemented by the profile package.
type MetabolismProvider interface {
	CurrentMetabolism(ctx context.Context, db *gorm.DB, userID snowflake.ID) (MetabolismSeed, error)
}

// NutritionTotals is the summed nutrition contribution of all food intake
// records on one logical date, used by Rebuild.
type NutritionTotals struct {
	Calories int64
	CarbsG   decimal.Decimal
	ProteinG decimal.Decimal
	FatG     decimal.Decimal
}

// ExerciseTotals is the summed exercise contribution for one logical date.
type ExerciseTotals struct {
	Calories int64
	Minutes  int
	Count    int
}

// BodyDay is the body/metabolism contribution for one logical date. Fields
// are nil/zero when no body record exists for the date.
type BodyDay struct {
	WeightKg   *decimal.Decimal
	BodyFatPct *decimal.Decimal
	BMR        int64
	TDEE       decimal.Decimal
}

// Rebuild sources, implemented by each record family's repository. They let
// the aggregate be recomputed from its constituent records without the
// aggregate package depending on the record packages.
type (
	NutritionSource interface {
		NutritionTotals(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (NutritionTotals, error)
	}
	ExerciseSource interface {
		ExerciseTotals(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (ExerciseTotals, error)
	}
	SleepSource interface {
		SleepSummary(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (SleepSummary, error)
	}
	BodySource interface {
		BodyDay(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (BodyDay, error)
	}
)
