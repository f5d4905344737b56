package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nutrilog/nutrilog/internal/cascade"
	"github.com/nutrilog/nutrilog/internal/clock"
	"github.com/nutrilog/nutrilog/internal/config"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	exercisedomain "github.com/nutrilog/nutrilog/internal/exercise/domain"
	"github.com/nutrilog/nutrilog/internal/metabolism"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// defaultWeightKg is used for MET estimation when the user has no body
// records yet. A logged body record later does not retro-correct estimates.
var defaultWeightKg = decimal.NewFromInt(70)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	Clock       clock.Clock
	GenID       *snowflake.Node
	Repo        exercisedomain.Repository
	ProfileRepo profiledomain.Repository
	DailyLog    dailylogdomain.Service
	Metrics     *cascade.Metrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	loc         *time.Location
	clock       clock.Clock
	genID       *snowflake.Node
	repo        exercisedomain.Repository
	profileRepo profiledomain.Repository
	dailyLog    dailylogdomain.Service
	metrics     *cascade.Metrics
}

func New(p Params) exercisedomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("exercise.service"),
		loc:         p.Cfg.Location(),
		clock:       p.Clock,
		genID:       p.GenID,
		repo:        p.Repo,
		profileRepo: p.ProfileRepo,
		dailyLog:    p.DailyLog,
		metrics:     p.Metrics,
	}
}

func (s *Service) Save(ctx context.Context, req exercisedomain.SaveRequest) (*exercisedomain.MutationResult, error) {
	start := time.Now()
	res, err := s.save(ctx, req)
	s.metrics.Observe("exercise", "save", start, err)
	return res, err
}

func (s *Service) save(ctx context.Context, req exercisedomain.SaveRequest) (*exercisedomain.MutationResult, error) {
	if req.UserID == 0 {
		return nil, exercisedomain.ErrInvalidUser
	}
	met, ok := req.ExerciseType.MET()
	if !ok {
		return nil, exercisedomain.ErrInvalidType
	}
	factor, ok := req.Intensity.Factor()
	if !ok {
		return nil, exercisedomain.ErrInvalidIntensity
	}
	if req.DurationMinutes <= 0 {
		return nil, exercisedomain.ErrInvalidDuration
	}

	date := dailylogdomain.LogicalDate(req.RecordedAt, s.loc)

	var result exercisedomain.MutationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		weight, err := s.currentWeight(ctx, tx, req.UserID)
		if err != nil {
			return cascade.Fail("load_profile", err)
		}
		calories, err := metabolism.ExerciseCalories(met, factor, weight, req.DurationMinutes)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		rec := &exercisedomain.ExerciseRecord{
			ID:              s.genID.Generate(),
			UserID:          req.UserID,
			LogDate:         datatypes.Date(date),
			ExerciseType:    string(req.ExerciseType),
			Intensity:       string(req.Intensity),
			DurationMinutes: req.DurationMinutes,
			Calories:        calories,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		delta := rec.Delta()
		if req.ID != 0 {
			old, err := s.repo.FindByID(ctx, tx, req.UserID, req.ID)
			if err != nil {
				return cascade.Fail("load_record", err)
			}
			if old == nil {
				return exercisedomain.ErrNotFound
			}
			oldDate := time.Time(old.LogDate)
			rec.ID = old.ID
			rec.CreatedAt = old.CreatedAt
			if oldDate.Equal(date) {
				delta = delta.Sub(old.Delta())
			} else {
				if _, err := s.dailyLog.ApplyExerciseDelta(ctx, tx, req.UserID, oldDate, old.Delta().Negate()); err != nil {
					return cascade.Fail("apply_exercise_delta", err)
				}
			}
			if err := s.repo.Update(ctx, tx, rec); err != nil {
				return cascade.Fail("persist_record", err)
			}
		} else {
			if err := s.repo.Insert(ctx, tx, rec); err != nil {
				return cascade.Fail("persist_record", err)
			}
		}

		log, err := s.dailyLog.ApplyExerciseDelta(ctx, tx, req.UserID, date, delta)
		if err != nil {
			return cascade.Fail("apply_exercise_delta", err)
		}

		result = exercisedomain.MutationResult{Record: rec, DailyLog: log}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) (*exercisedomain.MutationResult, error) {
	start := time.Now()
	res, err := s.delete(ctx, userID, id)
	s.metrics.Observe("exercise", "delete", start, err)
	return res, err
}

func (s *Service) delete(ctx context.Context, userID, id snowflake.ID) (*exercisedomain.MutationResult, error) {
	if userID == 0 {
		return nil, exercisedomain.ErrInvalidUser
	}
	if id == 0 {
		return nil, exercisedomain.ErrInvalidID
	}

	var result exercisedomain.MutationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.repo.FindByID(ctx, tx, userID, id)
		if err != nil {
			return cascade.Fail("load_record", err)
		}
		if rec == nil {
			return exercisedomain.ErrNotFound
		}

		if err := s.repo.Delete(ctx, tx, userID, id); err != nil {
			return cascade.Fail("persist_record", err)
		}
		log, err := s.dailyLog.ApplyExerciseDelta(ctx, tx, userID, time.Time(rec.LogDate), rec.Delta().Negate())
		if err != nil {
			return cascade.Fail("apply_exercise_delta", err)
		}

		result = exercisedomain.MutationResult{DailyLog: log}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ListByDate(ctx context.Context, userID snowflake.ID, date time.Time) ([]exercisedomain.ExerciseRecord, error) {
	if userID == 0 {
		return nil, exercisedomain.ErrInvalidUser
	}
	return s.repo.ListByDate(ctx, s.db, userID, date)
}

func (s *Service) currentWeight(ctx context.Context, tx *gorm.DB, userID snowflake.ID) (decimal.Decimal, error) {
	profile, err := s.profileRepo.FindByUser(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if profile == nil || profile.CurrentWeightKg == nil {
		return defaultWeightKg, nil
	}
	return *profile.CurrentWeightKg, nil
}
