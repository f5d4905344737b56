package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BodyRecord is one body-composition measurement. At most one exists per
// (user, logical date); saving again for the same date edits it.
type BodyRecord struct {
	ID      snowflake.ID   `json:"id" gorm:"primaryKey"`
	UserID  snowflake.ID   `json:"user_id" gorm:"not null;uniqueIndex:ux_body_records_user_date,priority:1"`
	LogDate datatypes.Date `json:"log_date" gorm:"not null;uniqueIndex:ux_body_records_user_date,priority:2"`

	WeightKg     decimal.Decimal  `json:"weight_kg" gorm:"type:decimal(6,2);not null"`
	BodyFatPct   *decimal.Decimal `json:"body_fat_pct" gorm:"type:decimal(5,2)"`
	MuscleMassKg *decimal.Decimal `json:"muscle_mass_kg" gorm:"type:decimal(6,2)"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BodyRecord) TableName() string { return "body_records" }

// MetabolismSnapshot is the computed BMR/TDEE for one body record, 1:1 by
// (user, logical date). It is replaced when its body record is edited and
// deleted with it; unrelated events never mutate it.
type MetabolismSnapshot struct {
	ID      snowflake.ID   `json:"id" gorm:"primaryKey"`
	UserID  snowflake.ID   `json:"user_id" gorm:"not null;uniqueIndex:ux_metabolism_snapshots_user_date,priority:1"`
	LogDate datatypes.Date `json:"log_date" gorm:"not null;uniqueIndex:ux_metabolism_snapshots_user_date,priority:2"`

	WeightKg   decimal.Decimal  `json:"weight_kg" gorm:"type:decimal(6,2);not null"`
	BodyFatPct *decimal.Decimal `json:"body_fat_pct" gorm:"type:decimal(5,2)"`

	BMR           int64           `json:"bmr" gorm:"not null"`
	TDEE          decimal.Decimal `json:"tdee" gorm:"type:decimal(8,1);not null"`
	ActivityLevel int             `json:"activity_level" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (MetabolismSnapshot) TableName() string { return "metabolism_snapshots" }
