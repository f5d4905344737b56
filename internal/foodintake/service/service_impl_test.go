package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/nutrilog/nutrilog/internal/catalog/domain"
	catalogrepository "github.com/nutrilog/nutrilog/internal/catalog/repository"
	catalogservice "github.com/nutrilog/nutrilog/internal/catalog/service"
	"github.com/nutrilog/nutrilog/internal/clock"
	"github.com/nutrilog/nutrilog/internal/config"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	dailylogrepository "github.com/nutrilog/nutrilog/internal/dailylog/repository"
	dailylogservice "github.com/nutrilog/nutrilog/internal/dailylog/service"
	intakedomain "github.com/nutrilog/nutrilog/internal/foodintake/domain"
	intakerepository "github.com/nutrilog/nutrilog/internal/foodintake/repository"
	"github.com/nutrilog/nutrilog/internal/migration"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/pkg/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type zeroProvider struct{}

func (zeroProvider) CurrentMetabolism(ctx context.Context, db *gorm.DB, userID snowflake.ID) (dailylogdomain.MetabolismSeed, error) {
	return dailylogdomain.MetabolismSeed{TDEE: decimal.Zero}, nil
}

type emptyExercise struct{}

func (emptyExercise) ExerciseTotals(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.ExerciseTotals, error) {
	return dailylogdomain.ExerciseTotals{}, nil
}

type emptySleep struct{}

func (emptySleep) SleepSummary(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.SleepSummary, error) {
	return dailylogdomain.SleepSummary{}, nil
}

type emptyBody struct{}

func (emptyBody) BodyDay(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.BodyDay, error) {
	return dailylogdomain.BodyDay{}, nil
}

type fixture struct {
	intake  intakedomain.Service
	catalog catalogdomain.Service
	user    snowflake.ID
	food    *catalogdomain.Food
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(migration.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(5)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	log := zap.NewNop()

	intakeRepo := intakerepository.Provide()
	dailyLog := dailylogservice.New(dailylogservice.Params{
		DB:        conn,
		Log:       log,
		GenID:     node,
		Repo:      dailylogrepository.Provide(),
		Provider:  zeroProvider{},
		Nutrition: intakeRepo.(dailylogdomain.NutritionSource),
		Exercise:  emptyExercise{},
		Sleep:     emptySleep{},
		Body:      emptyBody{},
	})

	catalogRepo := catalogrepository.Provide()
	catalogSvc := catalogservice.New(catalogservice.Params{
		DB: conn, Log: log, GenID: node, Repo: catalogRepo,
	})

	intakeSvc := New(Params{
		DB:          conn,
		Log:         log,
		Cfg:         config.Config{Timezone: "UTC"},
		Clock:       clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
		GenID:       node,
		Repo:        intakeRepo,
		CatalogRepo: catalogRepo,
		DailyLog:    dailyLog,
		Metrics:     nil,
	})

	// 100g serving: 150 kcal / 20c / 10p / 5f
	food, err := catalogSvc.Create(context.Background(), catalogdomain.CreateRequest{
		Name:             "oatmeal",
		ServingSizeGrams: decimal.RequireFromString("100"),
		Calories:         decimal.RequireFromString("150"),
		CarbsG:           decimal.RequireFromString("20"),
		ProteinG:         decimal.RequireFromString("10"),
		FatG:             decimal.RequireFromString("5"),
	})
	if err != nil {
		t.Fatalf("create food: %v", err)
	}

	return &fixture{
		intake:  intakeSvc,
		catalog: catalogSvc,
		user:    node.Generate(),
		food:    food,
	}
}

var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestSaveScalesAndAppliesDelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.intake.Save(ctx, intakedomain.SaveRequest{
		UserID:     f.user,
		RecordedAt: noon,
		FoodID:     f.food.ID,
		Quantity:   decimal.RequireFromString("2"),
		Unit:       nutrition.UnitServing,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	assert.Equal(t, int64(300), res.Record.Calories)
	assert.True(t, res.Record.CarbsG.Equal(decimal.RequireFromString("40")))
	assert.Equal(t, "oatmeal", res.Record.FoodName)
	assert.Equal(t, int64(300), res.DailyLog.CaloriesIn)
	assert.True(t, res.DailyLog.ProteinG.Equal(decimal.RequireFromString("20")))
}

func TestSaveGramQuantityScalesByServingSize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.intake.Save(ctx, intakedomain.SaveRequest{
		UserID:     f.user,
		RecordedAt: noon,
		FoodID:     f.food.ID,
		Quantity:   decimal.RequireFromString("50"),
		Unit:       nutrition.UnitGrams,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	assert.Equal(t, int64(75), res.Record.Calories)
	assert.True(t, res.Record.FatG.Equal(decimal.RequireFromString("2.5")))
}

func TestEditAppliesNewMinusOld(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.intake.Save(ctx, intakedomain.SaveRequest{
		UserID:     f.user,
		RecordedAt: noon,
		FoodID:     f.food.ID,
		Quantity:   decimal.RequireFromString("2"),
		Unit:       nutrition.UnitServing,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := f.intake.Save(ctx, intakedomain.SaveRequest{
		ID:         first.Record.ID,
		UserID:     f.user,
		RecordedAt: noon,
		FoodID:     f.food.ID,
		Quantity:   decimal.RequireFromString("1"),
		Unit:       nutrition.UnitServing,
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	assert.Equal(t, first.Record.ID, res.Record.ID)
	assert.Equal(t, int64(150), res.DailyLog.CaloriesIn)

	records, err := f.intake.ListByDate(ctx, f.user, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	assert.Len(t, records, 1)
}

func TestDeleteAppliesExactNegation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.intake.Save(ctx, intakedomain.SaveRequest{
		UserID:     f.user,
		RecordedAt: noon,
		FoodID:     f.food.ID,
		Quantity:   decimal.RequireFromString("2"),
		Unit:       nutrition.UnitServing,
	})
	if err != nil {
		t.Fatalf("save a: %v", err)
	}
	if _, err := f.intake.Save(ctx, intakedomain.SaveRequest{
		UserID:     f.user,
		RecordedAt: noon,
		FoodID:     f.food.ID,
		Quantity:   decimal.RequireFromString("1"),
		Unit:       nutrition.UnitServing,
	}); err != nil {
		t.Fatalf("save b: %v", err)
	}

	res, err := f.intake.Delete(ctx, f.user, a.Record.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	assert.Equal(t, int64(150), res.DailyLog.CaloriesIn)
	assert.True(t, res.DailyLog.CarbsG.Equal(decimal.RequireFromString("20")))
	assert.Nil(t, res.Record)
}

func TestSaveUnknownFoodFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.intake.Save(ctx, intakedomain.SaveRequest{
		UserID:     f.user,
		RecordedAt: noon,
		FoodID:     snowflake.ID(424242),
		Quantity:   decimal.RequireFromString("1"),
		Unit:       nutrition.UnitServing,
	})
	assert.ErrorIs(t, err, intakedomain.ErrFoodMissing)
}

func TestSaveInvalidQuantityFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.intake.Save(ctx, intakedomain.SaveRequest{
		UserID:     f.user,
		RecordedAt: noon,
		FoodID:     f.food.ID,
		Quantity:   decimal.Zero,
		Unit:       nutrition.UnitServing,
	})
	assert.ErrorIs(t, err, nutrition.ErrInvalidQuantity)
}
