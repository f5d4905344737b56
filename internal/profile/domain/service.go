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
	ErrNotFound             = errors.New("not_found")
	ErrInvalidUser          = errors.New("invalid_user")
	ErrInvalidHeight        = errors.New("invalid_height")
	ErrInvalidBirthDate     = errors.New("invalid_birth_date")
	ErrInvalidGender        = errors.New("invalid_gender")
	ErrInvalidActivityLevel = errors.New("invalid_activity_level")
)

type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (*Response, error)
	Get(ctx context.Context, userID snowflake.ID) (*Response, error)
}

type UpsertRequest struct {
	UserID        snowflake.ID
	HeightCm      decimal.Decimal
	BirthDate     time.Time
	Gender        string
	ActivityLevel int
}

type Response struct {
	UserID        string          `json:"user_id"`
	HeightCm      decimal.Decimal `json:"height_cm"`
	BirthDate     string          `json:"birth_date"`
	Gender        string          `json:"gender"`
	ActivityLevel int             `json:"activity_level"`

	CurrentWeightKg     *decimal.Decimal `json:"current_weight_kg"`
	CurrentBodyFatPct   *decimal.Decimal `json:"current_body_fat_pct"`
	CurrentMuscleMassKg *decimal.Decimal `json:"current_muscle_mass_kg"`
	CurrentBMR          *int64           `json:"current_bmr"`
	CurrentTDEE         *decimal.Decimal `json:"current_tdee"`
	StateUpdatedAt      *time.Time       `json:"state_updated_at"`
}

// Repository persists profiles. Methods take the caller's handle so cascade
// coordinators can update the current state inside their transaction.
type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, profile *Profile) error
	FindByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Profile, error)
	UpdateCurrentState(ctx context.Context, db *gorm.DB, userID snowflake.ID, state CurrentState) error
}
