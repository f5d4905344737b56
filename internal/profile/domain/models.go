package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Profile is the user's body profile plus the denormalized "current state"
// snapshot maintained by the body-record cascade. One row per user; never
// deleted while the user exists.
type Profile struct {
	UserID        snowflake.ID    `json:"user_id" gorm:"primaryKey;column:user_id"`
	HeightCm      decimal.Decimal `json:"height_cm" gorm:"type:decimal(5,1);not null"`
	BirthDate     datatypes.Date  `json:"birth_date" gorm:"not null"`
	Gender        string          `json:"gender" gorm:"type:text;not null"`
	ActivityLevel int             `json:"activity_level" gorm:"not null"`

	CurrentWeightKg     *decimal.Decimal `json:"current_weight_kg" gorm:"type:decimal(6,2)"`
	CurrentBodyFatPct   *decimal.Decimal `json:"current_body_fat_pct" gorm:"type:decimal(5,2)"`
	CurrentMuscleMassKg *decimal.Decimal `json:"current_muscle_mass_kg" gorm:"type:decimal(6,2)"`
	CurrentBMR          *int64           `json:"current_bmr"`
	CurrentTDEE         *decimal.Decimal `json:"current_tdee" gorm:"type:decimal(8,1)"`
	StateUpdatedAt      *time.Time       `json:"state_updated_at"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }

// AgeAt derives the user's age in whole years at the given time.
func (p *Profile) AgeAt(t time.Time) int {
	birth := time.Time(p.BirthDate)
	age := t.Year() - birth.Year()
	if t.Before(birth.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// CurrentState is the denormalized snapshot written by the body-record
// cascade. Nil fields clear the stored value; a fully nil state resets the
// profile to "no measurements yet".
type CurrentState struct {
	WeightKg     *decimal.Decimal
	BodyFatPct   *decimal.Decimal
	MuscleMassKg *decimal.Decimal
	BMR          *int64
	TDEE         *decimal.Decimal
	UpdatedAt    *time.Time
}
