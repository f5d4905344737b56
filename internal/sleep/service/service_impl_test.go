package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nutrilog/nutrilog/internal/clock"
	"github.com/nutrilog/nutrilog/internal/config"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	dailylogrepository "github.com/nutrilog/nutrilog/internal/dailylog/repository"
	dailylogservice "github.com/nutrilog/nutrilog/internal/dailylog/service"
	"github.com/nutrilog/nutrilog/internal/migration"
	sleepdomain "github.com/nutrilog/nutrilog/internal/sleep/domain"
	sleeprepository "github.com/nutrilog/nutrilog/internal/sleep/repository"
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

type emptyNutrition struct{}

func (emptyNutrition) NutritionTotals(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.NutritionTotals, error) {
	return dailylogdomain.NutritionTotals{}, nil
}

type emptyExercise struct{}

func (emptyExercise) ExerciseTotals(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.ExerciseTotals, error) {
	return dailylogdomain.ExerciseTotals{}, nil
}

type emptyBody struct{}

func (emptyBody) BodyDay(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.BodyDay, error) {
	return dailylogdomain.BodyDay{}, nil
}

func newTestService(t *testing.T) (sleepdomain.Service, snowflake.ID) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(migration.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(7)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	log := zap.NewNop()

	repo := sleeprepository.Provide()
	source := repo.(dailylogdomain.SleepSource)
	dailyLog := dailylogservice.New(dailylogservice.Params{
		DB:        conn,
		Log:       log,
		GenID:     node,
		Repo:      dailylogrepository.Provide(),
		Provider:  zeroProvider{},
		Nutrition: emptyNutrition{},
		Exercise:  emptyExercise{},
		Sleep:     source,
		Body:      emptyBody{},
	})

	svc := New(Params{
		DB:       conn,
		Log:      log,
		Cfg:      config.Config{Timezone: "UTC"},
		Clock:    clock.NewFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
		GenID:    node,
		Repo:     repo,
		Source:   source,
		DailyLog: dailyLog,
		Metrics:  nil,
	})
	return svc, node.Generate()
}

var morning = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestMultipleSessionsSumAndLongestStatusWins(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Save(ctx, sleepdomain.SaveRequest{
		UserID:          user,
		RecordedAt:      morning,
		DurationMinutes: 400,
		Status:          sleepdomain.StatusGood,
	}); err != nil {
		t.Fatalf("save night: %v", err)
	}
	res, err := svc.Save(ctx, sleepdomain.SaveRequest{
		UserID:          user,
		RecordedAt:      morning.Add(6 * time.Hour),
		DurationMinutes: 90,
		Status:          sleepdomain.StatusPoor,
	})
	if err != nil {
		t.Fatalf("save nap: %v", err)
	}

	assert.Equal(t, 490, *res.DailyLog.SleepMinutes)
	assert.Equal(t, "good", *res.DailyLog.SleepStatus)
}

func TestDeleteRecomputesFromSurvivors(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	night, err := svc.Save(ctx, sleepdomain.SaveRequest{
		UserID:          user,
		RecordedAt:      morning,
		DurationMinutes: 400,
		Status:          sleepdomain.StatusGood,
	})
	if err != nil {
		t.Fatalf("save night: %v", err)
	}
	if _, err := svc.Save(ctx, sleepdomain.SaveRequest{
		UserID:          user,
		RecordedAt:      morning.Add(6 * time.Hour),
		DurationMinutes: 90,
		Status:          sleepdomain.StatusPoor,
	}); err != nil {
		t.Fatalf("save nap: %v", err)
	}

	res, err := svc.Delete(ctx, user, night.Record.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	assert.Equal(t, 90, *res.DailyLog.SleepMinutes)
	assert.Equal(t, "poor", *res.DailyLog.SleepStatus)
}

func TestDeleteLastRecordClearsAggregate(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	only, err := svc.Save(ctx, sleepdomain.SaveRequest{
		UserID:          user,
		RecordedAt:      morning,
		DurationMinutes: 420,
		Status:          sleepdomain.StatusFair,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := svc.Delete(ctx, user, only.Record.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	assert.Nil(t, res.DailyLog.SleepMinutes)
	assert.Nil(t, res.DailyLog.SleepStatus)
}

func TestEditOverwritesSummary(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, sleepdomain.SaveRequest{
		UserID:          user,
		RecordedAt:      morning,
		DurationMinutes: 420,
		Status:          sleepdomain.StatusFair,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := svc.Save(ctx, sleepdomain.SaveRequest{
		ID:              first.Record.ID,
		UserID:          user,
		RecordedAt:      morning,
		DurationMinutes: 480,
		Status:          sleepdomain.StatusGood,
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	assert.Equal(t, first.Record.ID, res.Record.ID)
	assert.Equal(t, 480, *res.DailyLog.SleepMinutes)
	assert.Equal(t, "good", *res.DailyLog.SleepStatus)
}

func TestSaveRejectsBadInput(t *testing.T) {
	svc, user := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, sleepdomain.SaveRequest{
		UserID:          user,
		RecordedAt:      morning,
		DurationMinutes: 0,
		Status:          sleepdomain.StatusGood,
	})
	assert.ErrorIs(t, err, sleepdomain.ErrInvalidDuration)

	_, err = svc.Save(ctx, sleepdomain.SaveRequest{
		UserID:          user,
		RecordedAt:      morning,
		DurationMinutes: 300,
		Status:          "amazing",
	})
	assert.ErrorIs(t, err, sleepdomain.ErrInvalidStatus)
}
