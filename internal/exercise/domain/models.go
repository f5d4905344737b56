package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ExerciseType selects the MET value used for calorie estimation.
type ExerciseType string

const (
	TypeWalking  ExerciseType = "walking"
	TypeRunning  ExerciseType = "running"
	TypeCycling  ExerciseType = "cycling"
	TypeSwimming ExerciseType = "swimming"
	TypeStrength ExerciseType = "strength"
	TypeYoga     ExerciseType = "yoga"
	TypeHIIT     ExerciseType = "hiit"
	TypeOther    ExerciseType = "other"
)

// metValues are compendium-style MET assignments per exercise type at
// moderate intensity.
var metValues = map[ExerciseType]decimal.Decimal{
	TypeWalking:  decimal.NewFromFloat(3.5),
	TypeRunning:  decimal.NewFromFloat(8.0),
	TypeCycling:  decimal.NewFromFloat(6.8),
	TypeSwimming: decimal.NewFromFloat(6.0),
	TypeStrength: decimal.NewFromFloat(5.0),
	TypeYoga:     decimal.NewFromFloat(2.5),
	TypeHIIT:     decimal.NewFromFloat(10.0),
	TypeOther:    decimal.NewFromFloat(4.0),
}

// MET returns the type's MET value and whether the type is known.
func (t ExerciseType) MET() (decimal.Decimal, bool) {
	met, ok := metValues[t]
	return met, ok
}

// Intensity scales the base MET up or down one tier.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

var intensityFactors = map[Intensity]decimal.Decimal{
	IntensityLow:      decimal.NewFromFloat(0.8),
	IntensityModerate: decimal.NewFromInt(1),
	IntensityHigh:     decimal.NewFromFloat(1.2),
}

// Factor returns the intensity multiplier and whether the tier is known.
func (i Intensity) Factor() (decimal.Decimal, bool) {
	f, ok := intensityFactors[i]
	return f, ok
}

// ExerciseRecord is one logged workout. Calories are estimated at save time
// from the MET table and the user's weight, then stored on the record so the
// aggregate delta stays invertible even if the user's weight changes later.
type ExerciseRecord struct {
	ID      snowflake.ID   `json:"id" gorm:"primaryKey"`
	UserID  snowflake.ID   `json:"user_id" gorm:"not null;index:ix_exercise_records_user_date,priority:1"`
	LogDate datatypes.Date `json:"log_date" gorm:"not null;index:ix_exercise_records_user_date,priority:2"`

	ExerciseType    string `json:"exercise_type" gorm:"type:text;not null"`
	Intensity       string `json:"intensity" gorm:"type:text;not null"`
	DurationMinutes int    `json:"duration_minutes" gorm:"not null"`
	Calories        int64  `json:"calories" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ExerciseRecord) TableName() string { return "exercise_records" }

// Delta is the record's contribution to the daily aggregate.
func (e *ExerciseRecord) Delta() dailylogdomain.ExerciseDelta {
	return dailylogdomain.ExerciseDelta{
		Calories: e.Calories,
		Minutes:  e.DurationMinutes,
		Count:    1,
	}
}
