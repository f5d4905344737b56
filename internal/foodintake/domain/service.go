package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidUser = errors.New("invalid_user")
	ErrInvalidID   = errors.New("invalid_id")
	ErrFoodMissing = errors.New("food_missing")
)

// Service is the cascade coordinator for food intake records. A save scales
// the catalog food's facts to the consumed quantity, persists the record with
// the scaled values denormalized, and applies the nutrition delta to the day's
// aggregate, all in one transaction. Editing applies new minus old; deleting
// applies the stored values' negation.
type Service interface {
	Save(ctx context.Context, req SaveRequest) (*MutationResult, error)
	Delete(ctx context.Context, userID, id snowflake.ID) (*MutationResult, error)
	ListByDate(ctx context.Context, userID snowflake.ID, date time.Time) ([]FoodIntake, error)
}

type SaveRequest struct {
	// ID is zero for a new record and set when editing an existing one.
	ID         snowflake.ID
	UserID     snowflake.ID
	RecordedAt time.Time
	FoodID     snowflake.ID
	MealType   string
	Quantity   decimal.Decimal
	Unit       nutrition.Unit
}

type MutationResult struct {
	Record   *FoodIntake              `json:"record,omitempty"`
	DailyLog *dailylogdomain.DailyLog `json:"daily_log"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *FoodIntake) error
	Update(ctx context.Context, db *gorm.DB, rec *FoodIntake) error
	Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*FoodIntake, error)
	ListByDate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) ([]FoodIntake, error)
}
