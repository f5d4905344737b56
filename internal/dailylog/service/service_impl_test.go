package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	"github.com/nutrilog/nutrilog/internal/dailylog/repository"
	"github.com/nutrilog/nutrilog/pkg/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubProvider struct {
	seed dailylogdomain.MetabolismSeed
}

func (p *stubProvider) CurrentMetabolism(ctx context.Context, db *gorm.DB, userID snowflake.ID) (dailylogdomain.MetabolismSeed, error) {
	return p.seed, nil
}

type stubSources struct {
	nutrition dailylogdomain.NutritionTotals
	exercise  dailylogdomain.ExerciseTotals
	sleep     dailylogdomain.SleepSummary
	body      dailylogdomain.BodyDay
}

func (s *stubSources) NutritionTotals(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.NutritionTotals, error) {
	return s.nutrition, nil
}

func (s *stubSources) ExerciseTotals(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.ExerciseTotals, error) {
	return s.exercise, nil
}

func (s *stubSources) SleepSummary(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.SleepSummary, error) {
	return s.sleep, nil
}

func (s *stubSources) BodyDay(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.BodyDay, error) {
	return s.body, nil
}

func newTestService(t *testing.T, sources *stubSources) (*Service, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&dailylogdomain.DailyLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Provider: &stubProvider{seed: dailylogdomain.MetabolismSeed{
			BMR:  1650,
			TDEE: decimal.RequireFromString("2557.5"),
		}},
		Nutrition: sources,
		Exercise:  sources,
		Sleep:     sources,
		Body:      sources,
	})
	return svc.(*Service), conn
}

func testUser(t *testing.T) snowflake.ID {
	t.Helper()
	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return node.Generate()
}

var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func deltaA() dailylogdomain.NutritionDelta {
	return dailylogdomain.NutritionDelta{
		Calories: 300,
		CarbsG:   decimal.RequireFromString("40"),
		ProteinG: decimal.RequireFromString("20"),
		FatG:     decimal.RequireFromString("10"),
	}
}

func deltaB() dailylogdomain.NutritionDelta {
	return dailylogdomain.NutritionDelta{
		Calories: 500,
		CarbsG:   decimal.RequireFromString("60"),
		ProteinG: decimal.RequireFromString("30"),
		FatG:     decimal.RequireFromString("15"),
	}
}

func TestGetOrCreateSeedsMetabolism(t *testing.T) {
	svc, conn := newTestService(t, &stubSources{})
	user := testUser(t)

	log, err := svc.GetOrCreate(context.Background(), conn, user, testDate)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	assert.Equal(t, int64(1650), log.BMR)
	assert.True(t, log.TDEE.Equal(decimal.RequireFromString("2557.5")))
	assert.True(t, log.NetCalories.Equal(decimal.RequireFromString("-2557.5")))
	assert.Nil(t, log.CarbRatio)

	again, err := svc.GetOrCreate(context.Background(), conn, user, testDate)
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	assert.Equal(t, log.ID, again.ID)
}

func TestApplyNutritionDeltaAccumulatesAndInverts(t *testing.T) {
	svc, conn := newTestService(t, &stubSources{})
	user := testUser(t)
	ctx := context.Background()

	if _, err := svc.ApplyNutritionDelta(ctx, conn, user, testDate, deltaA()); err != nil {
		t.Fatalf("apply A: %v", err)
	}
	log, err := svc.ApplyNutritionDelta(ctx, conn, user, testDate, deltaB())
	if err != nil {
		t.Fatalf("apply B: %v", err)
	}

	assert.Equal(t, int64(800), log.CaloriesIn)
	assert.True(t, log.CarbsG.Equal(decimal.RequireFromString("100")))
	assert.True(t, log.ProteinG.Equal(decimal.RequireFromString("50")))
	assert.True(t, log.FatG.Equal(decimal.RequireFromString("25")))

	// 400/800, 200/800, 225/800 of calories.
	assert.True(t, log.CarbRatio.Equal(decimal.RequireFromString("50.0")))
	assert.True(t, log.ProteinRatio.Equal(decimal.RequireFromString("25.0")))
	assert.True(t, log.FatRatio.Equal(decimal.RequireFromString("28.1")))

	// Deleting record A applies the exact negation of its delta.
	log, err = svc.ApplyNutritionDelta(ctx, conn, user, testDate, deltaA().Negate())
	if err != nil {
		t.Fatalf("remove A: %v", err)
	}
	assert.Equal(t, int64(500), log.CaloriesIn)
	assert.True(t, log.CarbsG.Equal(decimal.RequireFromString("60")))
	assert.True(t, log.ProteinG.Equal(decimal.RequireFromString("30")))
	assert.True(t, log.FatG.Equal(decimal.RequireFromString("15")))
	assert.True(t, log.CarbRatio.Equal(decimal.RequireFromString("48.0")))
	assert.True(t, log.ProteinRatio.Equal(decimal.RequireFromString("24.0")))
	assert.True(t, log.FatRatio.Equal(decimal.RequireFromString("27.0")))
}

func TestApplyNutritionDeltaCommutes(t *testing.T) {
	svc, conn := newTestService(t, &stubSources{})
	ctx := context.Background()
	userAB := testUser(t)
	userBA := testUser(t)

	for _, d := range []dailylogdomain.NutritionDelta{deltaA(), deltaB()} {
		if _, err := svc.ApplyNutritionDelta(ctx, conn, userAB, testDate, d); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	for _, d := range []dailylogdomain.NutritionDelta{deltaB(), deltaA()} {
		if _, err := svc.ApplyNutritionDelta(ctx, conn, userBA, testDate, d); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}

	ab, err := svc.Get(ctx, userAB, testDate)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	ba, err := svc.Get(ctx, userBA, testDate)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	assert.Equal(t, ab.CaloriesIn, ba.CaloriesIn)
	assert.True(t, ab.CarbsG.Equal(ba.CarbsG))
	assert.True(t, ab.ProteinG.Equal(ba.ProteinG))
	assert.True(t, ab.FatG.Equal(ba.FatG))
	assert.True(t, ab.CarbRatio.Equal(*ba.CarbRatio))
	assert.True(t, ab.NetCalories.Equal(ba.NetCalories))
}

func TestRatiosClearWhenCaloriesReturnToZero(t *testing.T) {
	svc, conn := newTestService(t, &stubSources{})
	user := testUser(t)
	ctx := context.Background()

	if _, err := svc.ApplyNutritionDelta(ctx, conn, user, testDate, deltaA()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	log, err := svc.ApplyNutritionDelta(ctx, conn, user, testDate, deltaA().Negate())
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	assert.Equal(t, int64(0), log.CaloriesIn)
	assert.Nil(t, log.CarbRatio)
	assert.Nil(t, log.ProteinRatio)
	assert.Nil(t, log.FatRatio)
}

func TestApplyExerciseDeltaUpdatesNet(t *testing.T) {
	svc, conn := newTestService(t, &stubSources{})
	user := testUser(t)
	ctx := context.Background()

	if _, err := svc.ApplyNutritionDelta(ctx, conn, user, testDate, deltaB()); err != nil {
		t.Fatalf("apply nutrition: %v", err)
	}
	log, err := svc.ApplyExerciseDelta(ctx, conn, user, testDate, dailylogdomain.ExerciseDelta{
		Calories: 300,
		Minutes:  30,
		Count:    1,
	})
	if err != nil {
		t.Fatalf("apply exercise: %v", err)
	}

	assert.Equal(t, int64(300), log.CaloriesOut)
	assert.Equal(t, 30, log.ExerciseMinutes)
	assert.Equal(t, 1, log.ExerciseCount)
	// 500 in - 300 out - 2557.5 tdee
	assert.True(t, log.NetCalories.Equal(decimal.RequireFromString("-2357.5")))

	log, err = svc.ApplyExerciseDelta(ctx, conn, user, testDate, dailylogdomain.ExerciseDelta{
		Calories: 300, Minutes: 30, Count: 1,
	}.Negate())
	if err != nil {
		t.Fatalf("remove exercise: %v", err)
	}
	assert.Equal(t, int64(0), log.CaloriesOut)
	assert.Equal(t, 0, log.ExerciseCount)
	assert.True(t, log.NetCalories.Equal(decimal.RequireFromString("-2057.5")))
}

func TestApplySleepAndStepsOverwrite(t *testing.T) {
	svc, conn := newTestService(t, &stubSources{})
	user := testUser(t)
	ctx := context.Background()

	minutes := 420
	status := "good"
	log, err := svc.ApplySleep(ctx, conn, user, testDate, dailylogdomain.SleepSummary{
		Minutes: &minutes,
		Status:  &status,
	})
	if err != nil {
		t.Fatalf("apply sleep: %v", err)
	}
	assert.Equal(t, 420, *log.SleepMinutes)
	assert.Equal(t, "good", *log.SleepStatus)

	log, err = svc.ApplySleep(ctx, conn, user, testDate, dailylogdomain.SleepSummary{})
	if err != nil {
		t.Fatalf("clear sleep: %v", err)
	}
	assert.Nil(t, log.SleepMinutes)
	assert.Nil(t, log.SleepStatus)

	steps := 8200
	log, err = svc.ApplySteps(ctx, conn, user, testDate, &steps)
	if err != nil {
		t.Fatalf("apply steps: %v", err)
	}
	assert.Equal(t, 8200, *log.Steps)
}

func TestRebuildReconcilesFromSources(t *testing.T) {
	minutes := 480
	status := "fair"
	weight := decimal.RequireFromString("71.2")
	sources := &stubSources{
		nutrition: dailylogdomain.NutritionTotals{
			Calories: 800,
			CarbsG:   decimal.RequireFromString("100"),
			ProteinG: decimal.RequireFromString("50"),
			FatG:     decimal.RequireFromString("25"),
		},
		exercise: dailylogdomain.ExerciseTotals{Calories: 250, Minutes: 40, Count: 2},
		sleep:    dailylogdomain.SleepSummary{Minutes: &minutes, Status: &status},
		body: dailylogdomain.BodyDay{
			WeightKg: &weight,
			BMR:      1700,
			TDEE:     decimal.RequireFromString("2635.0"),
		},
	}
	svc, conn := newTestService(t, sources)
	user := testUser(t)
	ctx := context.Background()

	// Drift the aggregate on purpose, then rebuild.
	if _, err := svc.ApplyNutritionDelta(ctx, conn, user, testDate, deltaA()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	log, err := svc.Rebuild(ctx, user, testDate)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	assert.Equal(t, int64(800), log.CaloriesIn)
	assert.Equal(t, int64(250), log.CaloriesOut)
	assert.Equal(t, 2, log.ExerciseCount)
	assert.Equal(t, 480, *log.SleepMinutes)
	assert.Equal(t, int64(1700), log.BMR)
	assert.True(t, log.WeightKg.Equal(weight))
	// 800 - 250 - 2635.0
	assert.True(t, log.NetCalories.Equal(decimal.RequireFromString("-2085.0")))
	assert.True(t, log.CarbRatio.Equal(decimal.RequireFromString("50.0")))
}
