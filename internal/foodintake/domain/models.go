package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// FoodIntake is one logged consumption of a catalog food. The scaled nutrition
// values are denormalized onto the record at save time so later catalog edits
// never silently change history, and so deletes can apply the exact inverse of
// the delta that was added.
type FoodIntake struct {
	ID      snowflake.ID   `json:"id" gorm:"primaryKey"`
	UserID  snowflake.ID   `json:"user_id" gorm:"not null;index:ix_food_intakes_user_date,priority:1"`
	LogDate datatypes.Date `json:"log_date" gorm:"not null;index:ix_food_intakes_user_date,priority:2"`

	FoodID   snowflake.ID `json:"food_id" gorm:"not null"`
	FoodName string       `json:"food_name" gorm:"type:text;not null"`
	MealType string       `json:"meal_type" gorm:"type:text"`

	Quantity decimal.Decimal `json:"quantity" gorm:"type:decimal(7,2);not null"`
	Unit     string          `json:"unit" gorm:"type:text;not null"`

	Calories int64           `json:"calories" gorm:"not null"`
	CarbsG   decimal.Decimal `json:"carbs_g" gorm:"type:decimal(7,1);not null"`
	ProteinG decimal.Decimal `json:"protein_g" gorm:"type:decimal(7,1);not null"`
	FatG     decimal.Decimal `json:"fat_g" gorm:"type:decimal(7,1);not null"`

	SodiumMg *decimal.Decimal `json:"sodium_mg" gorm:"type:decimal(8,1)"`
	FiberG   *decimal.Decimal `json:"fiber_g" gorm:"type:decimal(7,1)"`
	SugarG   *decimal.Decimal `json:"sugar_g" gorm:"type:decimal(7,1)"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (FoodIntake) TableName() string { return "food_intakes" }

// Delta is the record's contribution to the daily aggregate.
func (fi *FoodIntake) Delta() dailylogdomain.NutritionDelta {
	return dailylogdomain.NutritionDelta{
		Calories: fi.Calories,
		CarbsG:   fi.CarbsG,
		ProteinG: fi.ProteinG,
		FatG:     fi.FatG,
	}
}
