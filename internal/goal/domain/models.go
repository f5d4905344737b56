package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Goal is the user's active target. One active goal per user; saving again
// replaces it. The start snapshot freezes where the user began so progress is
// measured against something stable.
type Goal struct {
	ID     snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID snowflake.ID `json:"user_id" gorm:"not null;uniqueIndex"`

	TargetWeightKg     decimal.Decimal  `json:"target_weight_kg" gorm:"type:decimal(6,2);not null"`
	TargetBodyFatPct   *decimal.Decimal `json:"target_body_fat_pct" gorm:"type:decimal(5,2)"`
	TargetLeanMassKg   *decimal.Decimal `json:"target_lean_mass_kg" gorm:"type:decimal(6,2)"`
	TargetMuscleMassKg *decimal.Decimal `json:"target_muscle_mass_kg" gorm:"type:decimal(6,2)"`

	// WeeklyRateKg is the planned weight change per week, negative for loss.
	WeeklyRateKg  decimal.Decimal `json:"weekly_rate_kg" gorm:"type:decimal(4,2);not null"`
	CalorieTarget int64           `json:"calorie_target" gorm:"not null;default:0"`

	StartWeightKg decimal.Decimal `json:"start_weight_kg" gorm:"type:decimal(6,2);not null"`
	StartDate     datatypes.Date  `json:"start_date" gorm:"not null"`
	Active        bool            `json:"active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Goal) TableName() string { return "goals" }
