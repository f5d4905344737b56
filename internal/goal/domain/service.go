package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nutrilog/nutrilog/internal/projection"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidUser       = errors.New("invalid_user")
	ErrInvalidTarget     = errors.New("invalid_target")
	ErrLeanBelowMuscle   = errors.New("lean_mass_below_muscle_mass")
	ErrNoWeightHistory   = errors.New("no_weight_history")
	ErrProfileIncomplete = errors.New("profile_incomplete")
)

type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (*Goal, error)
	Get(ctx context.Context, userID snowflake.ID) (*Goal, error)
	ProjectDate(ctx context.Context, userID snowflake.ID) (*Projection, error)
}

type UpsertRequest struct {
	UserID             snowflake.ID
	TargetWeightKg     decimal.Decimal
	TargetBodyFatPct   *decimal.Decimal
	TargetLeanMassKg   *decimal.Decimal
	TargetMuscleMassKg *decimal.Decimal
	WeeklyRateKg       decimal.Decimal
	// CalorieTarget zero means derive it from the current TDEE and the
	// planned weekly rate.
	CalorieTarget int64
}

// Projection is the API-facing projection result.
type Projection struct {
	Strategy      projection.Strategy `json:"strategy"`
	DailyTrendKg  decimal.Decimal     `json:"daily_trend_kg"`
	DaysRemaining int64               `json:"days_remaining"`
	ProjectedDate time.Time           `json:"projected_date"`
}

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, goal *Goal) error
	FindByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Goal, error)
}
