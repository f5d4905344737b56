package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	pkgdb "github.com/nutrilog/nutrilog/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// kcal per gram of each macro, used for ratio recomputation.
var (
	kcalPerGramCarb    = decimal.NewFromInt(4)
	kcalPerGramProtein = decimal.NewFromInt(4)
	kcalPerGramFat     = decimal.NewFromInt(9)
	hundred            = decimal.NewFromInt(100)
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     dailylogdomain.Repository
	Provider dailylogdomain.MetabolismProvider

	Nutrition dailylogdomain.NutritionSource
	Exercise  dailylogdomain.ExerciseSource
	Sleep     dailylogdomain.SleepSource
	Body      dailylogdomain.BodySource
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     dailylogdomain.Repository
	provider dailylogdomain.MetabolismProvider

	nutrition dailylogdomain.NutritionSource
	exercise  dailylogdomain.ExerciseSource
	sleep     dailylogdomain.SleepSource
	body      dailylogdomain.BodySource
}

func New(p Params) dailylogdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("dailylog.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		provider:  p.Provider,
		nutrition: p.Nutrition,
		exercise:  p.Exercise,
		sleep:     p.Sleep,
		body:      p.Body,
	}
}

func (s *Service) GetOrCreate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (*dailylogdomain.DailyLog, error) {
	if userID == 0 {
		return nil, dailylogdomain.ErrInvalidUser
	}
	if date.IsZero() {
		return nil, dailylogdomain.ErrInvalidDate
	}

	existing, err := s.repo.Find(ctx, db, userID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	seed, err := s.provider.CurrentMetabolism(ctx, db, userID)
	if err != nil {
		return nil, fmt.Errorf("seed metabolism: %w", err)
	}

	now := time.Now().UTC()
	log := &dailylogdomain.DailyLog{
		ID:          s.genID.Generate(),
		UserID:      userID,
		LogDate:     datatypes.Date(date),
		CarbsG:      decimal.Zero,
		ProteinG:    decimal.Zero,
		FatG:        decimal.Zero,
		BMR:         seed.BMR,
		TDEE:        seed.TDEE,
		NetCalories: seed.TDEE.Neg(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, db, log); err != nil {
		// Two events for the same fresh date can race on the lazy
		// create; the unique index arbitrates and the loser re-reads.
		if pkgdb.IsDuplicateKeyErr(err) {
			return s.repo.Find(ctx, db, userID, date)
		}
		return nil, err
	}
	return log, nil
}

func (s *Service) ApplyNutritionDelta(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, delta dailylogdomain.NutritionDelta) (*dailylogdomain.DailyLog, error) {
	log, err := s.GetOrCreate(ctx, db, userID, date)
	if err != nil {
		return nil, err
	}

	log.CaloriesIn += delta.Calories
	log.CarbsG = log.CarbsG.Add(delta.CarbsG)
	log.ProteinG = log.ProteinG.Add(delta.ProteinG)
	log.FatG = log.FatG.Add(delta.FatG)

	recomputeRatios(log)
	recomputeNet(log)
	return s.save(ctx, db, log)
}

func (s *Service) ApplyExerciseDelta(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, delta dailylogdomain.ExerciseDelta) (*dailylogdomain.DailyLog, error) {
	log, err := s.GetOrCreate(ctx, db, userID, date)
	if err != nil {
		return nil, err
	}

	log.CaloriesOut += delta.Calories
	log.ExerciseMinutes += delta.Minutes
	log.ExerciseCount += delta.Count

	recomputeNet(log)
	return s.save(ctx, db, log)
}

func (s *Service) ApplyBodySnapshot(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, weightKg, bodyFatPct *decimal.Decimal) (*dailylogdomain.DailyLog, error) {
	log, err := s.GetOrCreate(ctx, db, userID, date)
	if err != nil {
		return nil, err
	}

	log.WeightKg = weightKg
	log.BodyFatPct = bodyFatPct
	return s.save(ctx, db, log)
}

func (s *Service) ApplySleep(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, summary dailylogdomain.SleepSummary) (*dailylogdomain.DailyLog, error) {
	log, err := s.GetOrCreate(ctx, db, userID, date)
	if err != nil {
		return nil, err
	}

	log.SleepMinutes = summary.Minutes
	log.SleepStatus = summary.Status
	return s.save(ctx, db, log)
}

func (s *Service) ApplyMetabolism(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, bmr int64, tdee decimal.Decimal) (*dailylogdomain.DailyLog, error) {
	log, err := s.GetOrCreate(ctx, db, userID, date)
	if err != nil {
		return nil, err
	}

	log.BMR = bmr
	log.TDEE = tdee
	recomputeNet(log)
	return s.save(ctx, db, log)
}

func (s *Service) ApplySteps(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time, steps *int) (*dailylogdomain.DailyLog, error) {
	log, err := s.GetOrCreate(ctx, db, userID, date)
	if err != nil {
		return nil, err
	}

	log.Steps = steps
	return s.save(ctx, db, log)
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID, date time.Time) (*dailylogdomain.DailyLog, error) {
	log, err := s.repo.Find(ctx, s.db, userID, date)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, dailylogdomain.ErrNotFound
	}
	return log, nil
}

func (s *Service) Range(ctx context.Context, userID snowflake.ID, from, to time.Time) ([]dailylogdomain.DailyLog, error) {
	if from.After(to) {
		return nil, dailylogdomain.ErrInvalidDate
	}
	return s.repo.FindRange(ctx, s.db, userID, from, to)
}

// Rebuild recomputes one date's aggregate from the persisted constituent
// records. It repairs any aggregate that drifted and backs the explicit
// rebuild endpoint; the totals invariant holds by construction afterwards.
func (s *Service) Rebuild(ctx context.Context, userID snowflake.ID, date time.Time) (*dailylogdomain.DailyLog, error) {
	var out *dailylogdomain.DailyLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		log, err := s.GetOrCreate(ctx, tx, userID, date)
		if err != nil {
			return err
		}

		nutrition, err := s.nutrition.NutritionTotals(ctx, tx, userID, date)
		if err != nil {
			return fmt.Errorf("nutrition totals: %w", err)
		}
		exercise, err := s.exercise.ExerciseTotals(ctx, tx, userID, date)
		if err != nil {
			return fmt.Errorf("exercise totals: %w", err)
		}
		sleep, err := s.sleep.SleepSummary(ctx, tx, userID, date)
		if err != nil {
			return fmt.Errorf("sleep summary: %w", err)
		}
		body, err := s.body.BodyDay(ctx, tx, userID, date)
		if err != nil {
			return fmt.Errorf("body day: %w", err)
		}

		log.CaloriesIn = nutrition.Calories
		log.CarbsG = nutrition.CarbsG
		log.ProteinG = nutrition.ProteinG
		log.FatG = nutrition.FatG
		log.CaloriesOut = exercise.Calories
		log.ExerciseMinutes = exercise.Minutes
		log.ExerciseCount = exercise.Count
		log.SleepMinutes = sleep.Minutes
		log.SleepStatus = sleep.Status
		log.WeightKg = body.WeightKg
		log.BodyFatPct = body.BodyFatPct
		log.BMR = body.BMR
		log.TDEE = body.TDEE

		recomputeRatios(log)
		recomputeNet(log)

		out, err = s.save(ctx, tx, log)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("rebuilt daily log",
		zap.String("user_id", userID.String()),
		zap.Time("date", date),
	)
	return out, nil
}

func (s *Service) save(ctx context.Context, db *gorm.DB, log *dailylogdomain.DailyLog) (*dailylogdomain.DailyLog, error) {
	log.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, db, log); err != nil {
		return nil, err
	}
	return log, nil
}

// recomputeRatios rewrites the macro ratios from the current totals. Ratios
// are a pure function of the totals, which keeps delta application
// commutative: any order of adds and removes lands on the same ratios.
func recomputeRatios(log *dailylogdomain.DailyLog) {
	if log.CaloriesIn <= 0 {
		log.CarbRatio = nil
		log.ProteinRatio = nil
		log.FatRatio = nil
		return
	}

	total := decimal.NewFromInt(log.CaloriesIn)
	carb := log.CarbsG.Mul(kcalPerGramCarb).Div(total).Mul(hundred).Round(1)
	protein := log.ProteinG.Mul(kcalPerGramProtein).Div(total).Mul(hundred).Round(1)
	fat := log.FatG.Mul(kcalPerGramFat).Div(total).Mul(hundred).Round(1)
	log.CarbRatio = &carb
	log.ProteinRatio = &protein
	log.FatRatio = &fat
}

func recomputeNet(log *dailylogdomain.DailyLog) {
	log.NetCalories = decimal.NewFromInt(log.CaloriesIn).
		Sub(decimal.NewFromInt(log.CaloriesOut)).
		Sub(log.TDEE)
}
