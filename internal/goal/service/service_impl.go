package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	bodydomain "github.com/nutrilog/nutrilog/internal/bodyrecord/domain"
	"github.com/nutrilog/nutrilog/internal/clock"
	"github.com/nutrilog/nutrilog/internal/config"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	goaldomain "github.com/nutrilog/nutrilog/internal/goal/domain"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	"github.com/nutrilog/nutrilog/internal/projection"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// kcalPerKg converts a weight-change rate to a calorie deficit or surplus.
var kcalPerKg = decimal.NewFromInt(7700)

// historyWindowDays bounds how far back projection looks for weight samples.
const historyWindowDays = 30

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	Clock       clock.Clock
	GenID       *snowflake.Node
	Repo        goaldomain.Repository
	ProfileRepo profiledomain.Repository
	BodyRecords bodydomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	loc         *time.Location
	clock       clock.Clock
	genID       *snowflake.Node
	repo        goaldomain.Repository
	profileRepo profiledomain.Repository
	bodyRecords bodydomain.Service
}

func New(p Params) goaldomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("goal.service"),
		loc:         p.Cfg.Location(),
		clock:       p.Clock,
		genID:       p.GenID,
		repo:        p.Repo,
		profileRepo: p.ProfileRepo,
		bodyRecords: p.BodyRecords,
	}
}

func (s *Service) Upsert(ctx context.Context, req goaldomain.UpsertRequest) (*goaldomain.Goal, error) {
	if req.UserID == 0 {
		return nil, goaldomain.ErrInvalidUser
	}
	if req.TargetWeightKg.LessThanOrEqual(decimal.Zero) {
		return nil, goaldomain.ErrInvalidTarget
	}
	// Lean mass includes muscle, so a lean target below the muscle target
	// is unsatisfiable.
	if req.TargetLeanMassKg != nil && req.TargetMuscleMassKg != nil &&
		req.TargetLeanMassKg.LessThan(*req.TargetMuscleMassKg) {
		return nil, goaldomain.ErrLeanBelowMuscle
	}

	profile, err := s.profileRepo.FindByUser(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.CurrentWeightKg == nil {
		return nil, goaldomain.ErrProfileIncomplete
	}

	now := s.clock.Now()
	goal := &goaldomain.Goal{
		ID:                 s.genID.Generate(),
		UserID:             req.UserID,
		TargetWeightKg:     req.TargetWeightKg,
		TargetBodyFatPct:   req.TargetBodyFatPct,
		TargetLeanMassKg:   req.TargetLeanMassKg,
		TargetMuscleMassKg: req.TargetMuscleMassKg,
		WeeklyRateKg:       req.WeeklyRateKg,
		CalorieTarget:      req.CalorieTarget,
		StartWeightKg:      *profile.CurrentWeightKg,
		StartDate:          datatypes.Date(dailylogdomain.LogicalDate(now, s.loc)),
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if goal.CalorieTarget == 0 && profile.CurrentTDEE != nil {
		goal.CalorieTarget = deriveCalorieTarget(*profile.CurrentTDEE, req.WeeklyRateKg)
	}

	existing, err := s.repo.FindByUser(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		goal.ID = existing.ID
		goal.CreatedAt = existing.CreatedAt
		goal.StartWeightKg = existing.StartWeightKg
		goal.StartDate = existing.StartDate
	}
	if err := s.repo.Upsert(ctx, s.db, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (*goaldomain.Goal, error) {
	if userID == 0 {
		return nil, goaldomain.ErrInvalidUser
	}
	goal, err := s.repo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if goal == nil || !goal.Active {
		return nil, goaldomain.ErrNotFound
	}
	return goal, nil
}

// ProjectDate estimates when the active goal's target weight will be reached
// from the trailing weight history. ErrNoProjection passes through when the
// trend is flat.
func (s *Service) ProjectDate(ctx context.Context, userID snowflake.ID) (*goaldomain.Projection, error) {
	goal, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.bodyRecords.WeightHistory(ctx, userID, historyWindowDays)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, goaldomain.ErrNoWeightHistory
	}

	history := make([]projection.Sample, 0, len(records))
	for i := range records {
		history = append(history, projection.Sample{
			Date:     time.Time(records[i].LogDate),
			WeightKg: records[i].WeightKg,
		})
	}

	res, err := projection.Project(projection.Input{
		History:        history,
		TargetWeightKg: goal.TargetWeightKg,
		WeeklyRateKg:   goal.WeeklyRateKg,
		Today:          dailylogdomain.LogicalDate(s.clock.Now(), s.loc),
	})
	if err != nil {
		if errors.Is(err, projection.ErrEmptyHistory) {
			return nil, goaldomain.ErrNoWeightHistory
		}
		return nil, err
	}
	return &goaldomain.Projection{
		Strategy:      res.Strategy,
		DailyTrendKg:  res.DailyTrendKg,
		DaysRemaining: res.DaysRemaining,
		ProjectedDate: res.ProjectedDate,
	}, nil
}

// deriveCalorieTarget shifts the maintenance TDEE by the planned weekly rate
// spread across the week. A negative rate yields a deficit.
func deriveCalorieTarget(tdee decimal.Decimal, weeklyRateKg decimal.Decimal) int64 {
	daily := weeklyRateKg.Mul(kcalPerKg).Div(decimal.NewFromInt(7))
	return tdee.Add(daily).Round(0).IntPart()
}
