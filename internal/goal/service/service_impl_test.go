package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	bodydomain "github.com/nutrilog/nutrilog/internal/bodyrecord/domain"
	bodyrepository "github.com/nutrilog/nutrilog/internal/bodyrecord/repository"
	bodyservice "github.com/nutrilog/nutrilog/internal/bodyrecord/service"
	"github.com/nutrilog/nutrilog/internal/clock"
	"github.com/nutrilog/nutrilog/internal/config"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	dailylogrepository "github.com/nutrilog/nutrilog/internal/dailylog/repository"
	dailylogservice "github.com/nutrilog/nutrilog/internal/dailylog/service"
	exerciserepository "github.com/nutrilog/nutrilog/internal/exercise/repository"
	intakerepository "github.com/nutrilog/nutrilog/internal/foodintake/repository"
	goaldomain "github.com/nutrilog/nutrilog/internal/goal/domain"
	goalrepository "github.com/nutrilog/nutrilog/internal/goal/repository"
	"github.com/nutrilog/nutrilog/internal/migration"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	profilerepository "github.com/nutrilog/nutrilog/internal/profile/repository"
	profileservice "github.com/nutrilog/nutrilog/internal/profile/service"
	"github.com/nutrilog/nutrilog/internal/projection"
	sleeprepository "github.com/nutrilog/nutrilog/internal/sleep/repository"
	"github.com/nutrilog/nutrilog/pkg/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fixture struct {
	goals goaldomain.Service
	body  bodydomain.Service
	clock *clock.FakeClock
	user  snowflake.ID
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

	node, err := snowflake.NewNode(8)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	cfg := config.Config{Timezone: "UTC"}

	profileRepo := profilerepository.Provide()
	profiles := profileservice.New(profileservice.Params{DB: conn, Log: log, Repo: profileRepo})

	bodyRepo := bodyrepository.Provide()
	dailyLog := dailylogservice.New(dailylogservice.Params{
		DB:        conn,
		Log:       log,
		GenID:     node,
		Repo:      dailylogrepository.Provide(),
		Provider:  profiles,
		Nutrition: intakerepository.Provide().(dailylogdomain.NutritionSource),
		Exercise:  exerciserepository.Provide().(dailylogdomain.ExerciseSource),
		Sleep:     sleeprepository.Provide().(dailylogdomain.SleepSource),
		Body:      bodyRepo.(dailylogdomain.BodySource),
	})

	body := bodyservice.New(bodyservice.Params{
		DB:          conn,
		Log:         log,
		Cfg:         cfg,
		Clock:       fake,
		GenID:       node,
		Repo:        bodyRepo,
		ProfileRepo: profileRepo,
		DailyLog:    dailyLog,
		Metrics:     nil,
	})

	goals := New(Params{
		DB:          conn,
		Log:         log,
		Cfg:         cfg,
		Clock:       fake,
		GenID:       node,
		Repo:        goalrepository.Provide(),
		ProfileRepo: profileRepo,
		BodyRecords: body,
	})

	f := &fixture{goals: goals, body: body, clock: fake, user: node.Generate()}

	if _, err := profiles.Upsert(context.Background(), profiledomain.UpsertRequest{
		UserID:        f.user,
		HeightCm:      decimal.RequireFromString("175"),
		BirthDate:     time.Date(1996, 3, 1, 0, 0, 0, 0, time.UTC),
		Gender:        "male",
		ActivityLevel: 3,
	}); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}
	return f
}

func (f *fixture) saveWeight(t *testing.T, day int, weight string) {
	t.Helper()
	bf := decimal.RequireFromString("18")
	_, err := f.body.Save(context.Background(), bodydomain.SaveRequest{
		UserID:     f.user,
		RecordedAt: time.Date(2026, 3, day, 8, 0, 0, 0, time.UTC),
		WeightKg:   decimal.RequireFromString(weight),
		BodyFatPct: &bf,
	})
	if err != nil {
		t.Fatalf("save weight: %v", err)
	}
}

func TestUpsertRequiresCurrentWeight(t *testing.T) {
	f := newFixture(t)

	_, err := f.goals.Upsert(context.Background(), goaldomain.UpsertRequest{
		UserID:         f.user,
		TargetWeightKg: decimal.RequireFromString("70"),
		WeeklyRateKg:   decimal.RequireFromString("-0.5"),
	})
	assert.ErrorIs(t, err, goaldomain.ErrProfileIncomplete)
}

func TestUpsertSnapshotsStartAndDerivesCalorieTarget(t *testing.T) {
	f := newFixture(t)
	f.saveWeight(t, 10, "72.5")

	goal, err := f.goals.Upsert(context.Background(), goaldomain.UpsertRequest{
		UserID:         f.user,
		TargetWeightKg: decimal.RequireFromString("70"),
		WeeklyRateKg:   decimal.RequireFromString("-0.5"),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	assert.True(t, goal.StartWeightKg.Equal(decimal.RequireFromString("72.5")))
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), time.Time(goal.StartDate))
	// TDEE 2563.7 - 0.5*7700/7 = 2013.7 -> 2014
	assert.Equal(t, int64(2014), goal.CalorieTarget)
	assert.True(t, goal.Active)
}

func TestUpsertKeepsStartSnapshotOnEdit(t *testing.T) {
	f := newFixture(t)
	f.saveWeight(t, 9, "73.0")

	first, err := f.goals.Upsert(context.Background(), goaldomain.UpsertRequest{
		UserID:         f.user,
		TargetWeightKg: decimal.RequireFromString("70"),
		WeeklyRateKg:   decimal.RequireFromString("-0.5"),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	f.saveWeight(t, 10, "72.5")
	second, err := f.goals.Upsert(context.Background(), goaldomain.UpsertRequest{
		UserID:         f.user,
		TargetWeightKg: decimal.RequireFromString("69"),
		WeeklyRateKg:   decimal.RequireFromString("-0.5"),
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.StartWeightKg.Equal(first.StartWeightKg))
	assert.True(t, second.TargetWeightKg.Equal(decimal.RequireFromString("69")))
}

func TestUpsertRejectsLeanBelowMuscle(t *testing.T) {
	f := newFixture(t)
	f.saveWeight(t, 10, "72.5")

	lean := decimal.RequireFromString("55")
	muscle := decimal.RequireFromString("60")
	_, err := f.goals.Upsert(context.Background(), goaldomain.UpsertRequest{
		UserID:             f.user,
		TargetWeightKg:     decimal.RequireFromString("70"),
		WeeklyRateKg:       decimal.RequireFromString("-0.5"),
		TargetLeanMassKg:   &lean,
		TargetMuscleMassKg: &muscle,
	})
	assert.ErrorIs(t, err, goaldomain.ErrLeanBelowMuscle)
}

func TestProjectDateLinearFallsBackToPlannedRate(t *testing.T) {
	f := newFixture(t)
	f.saveWeight(t, 9, "72.6")
	f.saveWeight(t, 10, "72.5")

	if _, err := f.goals.Upsert(context.Background(), goaldomain.UpsertRequest{
		UserID:         f.user,
		TargetWeightKg: decimal.RequireFromString("70.5"),
		WeeklyRateKg:   decimal.RequireFromString("-0.7"),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	proj, err := f.goals.ProjectDate(context.Background(), f.user)
	if err != nil {
		t.Fatalf("project: %v", err)
	}

	// |72.5 - 70.5| / (0.7/7 per day) = 20 days
	assert.Equal(t, projection.StrategyLinear, proj.Strategy)
	assert.Equal(t, int64(20), proj.DaysRemaining)
	assert.Equal(t, time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC), proj.ProjectedDate)
}

func TestProjectDateFlatTrendReportsNoProjection(t *testing.T) {
	f := newFixture(t)
	f.saveWeight(t, 10, "72.5")

	if _, err := f.goals.Upsert(context.Background(), goaldomain.UpsertRequest{
		UserID:         f.user,
		TargetWeightKg: decimal.RequireFromString("70"),
		WeeklyRateKg:   decimal.Zero,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	_, err := f.goals.ProjectDate(context.Background(), f.user)
	assert.ErrorIs(t, err, projection.ErrNoProjection)
}

func TestProjectDateWithoutGoalFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.goals.ProjectDate(context.Background(), f.user)
	assert.ErrorIs(t, err, goaldomain.ErrNotFound)
}
