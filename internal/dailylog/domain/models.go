package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DailyLog is the per-user-per-day aggregate record. Exactly one row exists
// per (user, logical date); it is created lazily on the first contributing
// event and mutated by every later one. Its totals must always equal the sum
// of the currently persisted constituent records for that date.
type DailyLog struct {
	ID      snowflake.ID   `json:"id" gorm:"primaryKey"`
	UserID  snowflake.ID   `json:"user_id" gorm:"not null;uniqueIndex:ux_daily_logs_user_date,priority:1"`
	LogDate datatypes.Date `json:"log_date" gorm:"not null;uniqueIndex:ux_daily_logs_user_date,priority:2"`

	CaloriesIn int64           `json:"calories_in" gorm:"not null;default:0"`
	CarbsG     decimal.Decimal `json:"carbs_g" gorm:"type:decimal(8,1);not null;default:0"`
	ProteinG   decimal.Decimal `json:"protein_g" gorm:"type:decimal(8,1);not null;default:0"`
	FatG       decimal.Decimal `json:"fat_g" gorm:"type:decimal(8,1);not null;default:0"`

	// Macro ratios in percent, nil until calories have been logged.
	CarbRatio    *decimal.Decimal `json:"carb_ratio" gorm:"type:decimal(5,1)"`
	ProteinRatio *decimal.Decimal `json:"protein_ratio" gorm:"type:decimal(5,1)"`
	FatRatio     *decimal.Decimal `json:"fat_ratio" gorm:"type:decimal(5,1)"`

	// BMR/TDEE copied from the latest applicable metabolism snapshot,
	// zero when the user has none yet.
	BMR         int64           `json:"bmr" gorm:"not null;default:0"`
	TDEE        decimal.Decimal `json:"tdee" gorm:"type:decimal(8,1);not null;default:0"`
	NetCalories decimal.Decimal `json:"net_calories" gorm:"type:decimal(9,1);not null;default:0"`

	CaloriesOut     int64 `json:"calories_out" gorm:"not null;default:0"`
	ExerciseMinutes int   `json:"exercise_minutes" gorm:"not null;default:0"`
	ExerciseCount   int   `json:"exercise_count" gorm:"not null;default:0"`
	Steps           *int  `json:"steps"`

	WeightKg   *decimal.Decimal `json:"weight_kg" gorm:"type:decimal(6,2)"`
	BodyFatPct *decimal.Decimal `json:"body_fat_pct" gorm:"type:decimal(5,2)"`

	SleepMinutes *int    `json:"sleep_minutes"`
	SleepStatus  *string `json:"sleep_status" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (DailyLog) TableName() string { return "daily_logs" }

// LogicalDate maps a timestamp to its logical date. The day boundary sits at
// 02:00 local time, not midnight, so a 01:30 snack still belongs to the
// previous day. The result is a date at midnight UTC.
func LogicalDate(t time.Time, loc *time.Location) time.Time {
	shifted := t.In(loc).Add(-2 * time.Hour)
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)
}

// NutritionDelta is a signed change to the nutrition totals. Deleting a
// record applies the exact negation of the delta that added it; editing
// applies new minus old.
type NutritionDelta struct {
	Calories int64
	CarbsG   decimal.Decimal
	ProteinG decimal.Decimal
	FatG     decimal.Decimal
}

// Negate returns the exact inverse delta.
func (d NutritionDelta) Negate() NutritionDelta {
	return NutritionDelta{
		Calories: -d.Calories,
		CarbsG:   d.CarbsG.Neg(),
		ProteinG: d.ProteinG.Neg(),
		FatG:     d.FatG.Neg(),
	}
}

// Sub returns d minus other, the delta for an edit from other to d.
func (d NutritionDelta) Sub(other NutritionDelta) NutritionDelta {
	return NutritionDelta{
		Calories: d.Calories - other.Calories,
		CarbsG:   d.CarbsG.Sub(other.CarbsG),
		ProteinG: d.ProteinG.Sub(other.ProteinG),
		FatG:     d.FatG.Sub(other.FatG),
	}
}

// ExerciseDelta is a signed change to the exercise totals. Count moves by
// one per record added or removed, zero on edit.
type ExerciseDelta struct {
	Calories int64
	Minutes  int
	Count    int
}

func (d ExerciseDelta) Negate() ExerciseDelta {
	return ExerciseDelta{Calories: -d.Calories, Minutes: -d.Minutes, Count: -d.Count}
}

func (d ExerciseDelta) Sub(other ExerciseDelta) ExerciseDelta {
	return ExerciseDelta{
		Calories: d.Calories - other.Calories,
		Minutes:  d.Minutes - other.Minutes,
		Count:    d.Count - other.Count,
	}
}

// SleepSummary is the aggregated sleep contribution for one logical date:
// total minutes across all records, status of the longest one. Nil fields
// clear the aggregate (no sleep records remain).
type SleepSummary struct {
	Minutes *int
	Status  *string
}

// MetabolismSeed carries the user's current BMR/TDEE used to seed a lazily
// created DailyLog.
type MetabolismSeed struct {
	BMR  int64
	TDEE decimal.Decimal
}
