package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Food is one catalog entry with per-serving nutrition facts. Rows are keyed
// by a stable identifier so intake records survive catalog edits.
type Food struct {
	ID               snowflake.ID    `json:"id" gorm:"primaryKey"`
	Name             string          `json:"name" gorm:"type:text;not null;index"`
	Brand            string          `json:"brand" gorm:"type:text"`
	ServingSizeGrams decimal.Decimal `json:"serving_size_grams" gorm:"type:decimal(7,1);not null"`

	Calories decimal.Decimal `json:"calories" gorm:"type:decimal(7,1);not null"`
	CarbsG   decimal.Decimal `json:"carbs_g" gorm:"type:decimal(6,1);not null"`
	ProteinG decimal.Decimal `json:"protein_g" gorm:"type:decimal(6,1);not null"`
	FatG     decimal.Decimal `json:"fat_g" gorm:"type:decimal(6,1);not null"`

	SodiumMg *decimal.Decimal `json:"sodium_mg" gorm:"type:decimal(7,1)"`
	FiberG   *decimal.Decimal `json:"fiber_g" gorm:"type:decimal(6,1)"`
	SugarG   *decimal.Decimal `json:"sugar_g" gorm:"type:decimal(6,1)"`

	// Extra micronutrients from imported food databases, keyed by nutrient
	// code. Not interpreted by the core.
	Extras datatypes.JSONMap `json:"extras" gorm:"type:json"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Food) TableName() string { return "foods" }

// Facts adapts the catalog row to the nutrition calculator's input.
func (f *Food) Facts() nutrition.Facts {
	return nutrition.Facts{
		ServingSizeGrams: f.ServingSizeGrams,
		Calories:         f.Calories,
		CarbsG:           f.CarbsG,
		ProteinG:         f.ProteinG,
		FatG:             f.FatG,
		SodiumMg:         f.SodiumMg,
		FiberG:           f.FiberG,
		SugarG:           f.SugarG,
	}
}
