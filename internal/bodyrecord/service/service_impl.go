package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	bodydomain "github.com/nutrilog/nutrilog/internal/bodyrecord/domain"
	"github.com/nutrilog/nutrilog/internal/cascade"
	"github.com/nutrilog/nutrilog/internal/clock"
	"github.com/nutrilog/nutrilog/internal/config"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	"github.com/nutrilog/nutrilog/internal/metabolism"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	Clock       clock.Clock
	GenID       *snowflake.Node
	Repo        bodydomain.Repository
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
	repo        bodydomain.Repository
	profileRepo profiledomain.Repository
	dailyLog    dailylogdomain.Service
	metrics     *cascade.Metrics
}

func New(p Params) bodydomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("bodyrecord.service"),
		loc:         p.Cfg.Location(),
		clock:       p.Clock,
		genID:       p.GenID,
		repo:        p.Repo,
		profileRepo: p.ProfileRepo,
		dailyLog:    p.DailyLog,
		metrics:     p.Metrics,
	}
}

func (s *Service) Save(ctx context.Context, req bodydomain.SaveRequest) (*bodydomain.MutationResult, error) {
	start := time.Now()
	res, err := s.save(ctx, req)
	s.metrics.Observe("body", "save", start, err)
	return res, err
}

func (s *Service) save(ctx context.Context, req bodydomain.SaveRequest) (*bodydomain.MutationResult, error) {
	if req.UserID == 0 {
		return nil, bodydomain.ErrInvalidUser
	}
	if req.WeightKg.LessThanOrEqual(decimal.Zero) {
		return nil, bodydomain.ErrInvalidWeight
	}
	if req.BodyFatPct != nil {
		if req.BodyFatPct.IsNegative() || req.BodyFatPct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, bodydomain.ErrInvalidBodyFat
		}
	}

	date := dailylogdomain.LogicalDate(req.RecordedAt, s.loc)

	var result bodydomain.MutationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := s.profileRepo.FindByUser(ctx, tx, req.UserID)
		if err != nil {
			return cascade.Fail("load_profile", err)
		}
		if profile == nil {
			return bodydomain.ErrProfileRequired
		}

		bmr, tdee, err := s.computeMetabolism(profile, req.WeightKg, req.BodyFatPct, date)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		rec := &bodydomain.BodyRecord{
			ID:           s.genID.Generate(),
			UserID:       req.UserID,
			LogDate:      datatypes.Date(date),
			WeightKg:     req.WeightKg,
			BodyFatPct:   req.BodyFatPct,
			MuscleMassKg: req.MuscleMassKg,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		existing, err := s.repo.FindByDate(ctx, tx, req.UserID, date)
		if err != nil {
			return cascade.Fail("load_record", err)
		}
		if existing != nil {
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
		}
		if err := s.repo.Upsert(ctx, tx, rec); err != nil {
			return cascade.Fail("persist_record", err)
		}

		snap := &bodydomain.MetabolismSnapshot{
			ID:            s.genID.Generate(),
			UserID:        req.UserID,
			LogDate:       datatypes.Date(date),
			WeightKg:      req.WeightKg,
			BodyFatPct:    req.BodyFatPct,
			BMR:           bmr,
			TDEE:          tdee,
			ActivityLevel: profile.ActivityLevel,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		prior, err := s.repo.FindSnapshot(ctx, tx, req.UserID, date)
		if err != nil {
			return cascade.Fail("load_snapshot", err)
		}
		if prior != nil {
			snap.ID = prior.ID
			snap.CreatedAt = prior.CreatedAt
		}
		if err := s.repo.UpsertSnapshot(ctx, tx, snap); err != nil {
			return cascade.Fail("persist_snapshot", err)
		}

		if _, err := s.dailyLog.ApplyBodySnapshot(ctx, tx, req.UserID, date, &req.WeightKg, req.BodyFatPct); err != nil {
			return cascade.Fail("apply_body_snapshot", err)
		}
		log, err := s.dailyLog.ApplyMetabolism(ctx, tx, req.UserID, date, bmr, tdee)
		if err != nil {
			return cascade.Fail("apply_metabolism", err)
		}

		latest, err := s.repo.FindLatest(ctx, tx, req.UserID)
		if err != nil {
			return cascade.Fail("find_latest", err)
		}
		if latest != nil && latest.ID == rec.ID {
			state := profiledomain.CurrentState{
				WeightKg:     &rec.WeightKg,
				BodyFatPct:   rec.BodyFatPct,
				MuscleMassKg: rec.MuscleMassKg,
				BMR:          &bmr,
				TDEE:         &tdee,
				UpdatedAt:    &now,
			}
			if err := s.profileRepo.UpdateCurrentState(ctx, tx, req.UserID, state); err != nil {
				return cascade.Fail("update_current_state", err)
			}
		}

		updated, err := s.profileRepo.FindByUser(ctx, tx, req.UserID)
		if err != nil {
			return cascade.Fail("load_profile", err)
		}

		result = bodydomain.MutationResult{
			Record:       rec,
			Snapshot:     snap,
			DailyLog:     log,
			CurrentState: updated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) (*bodydomain.MutationResult, error) {
	start := time.Now()
	res, err := s.delete(ctx, userID, id)
	s.metrics.Observe("body", "delete", start, err)
	return res, err
}

func (s *Service) delete(ctx context.Context, userID, id snowflake.ID) (*bodydomain.MutationResult, error) {
	if userID == 0 {
		return nil, bodydomain.ErrInvalidUser
	}
	if id == 0 {
		return nil, bodydomain.ErrInvalidID
	}

	var result bodydomain.MutationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.repo.FindByID(ctx, tx, userID, id)
		if err != nil {
			return cascade.Fail("load_record", err)
		}
		if rec == nil {
			return bodydomain.ErrNotFound
		}
		date := time.Time(rec.LogDate)

		if err := s.repo.Delete(ctx, tx, userID, id); err != nil {
			return cascade.Fail("persist_record", err)
		}
		if err := s.repo.DeleteSnapshot(ctx, tx, userID, date); err != nil {
			return cascade.Fail("persist_snapshot", err)
		}

		// The deleted date's aggregate loses its body and metabolism
		// values outright; it never inherits a neighboring date's.
		if _, err := s.dailyLog.ApplyBodySnapshot(ctx, tx, userID, date, nil, nil); err != nil {
			return cascade.Fail("apply_body_snapshot", err)
		}
		log, err := s.dailyLog.ApplyMetabolism(ctx, tx, userID, date, 0, decimal.Zero)
		if err != nil {
			return cascade.Fail("apply_metabolism", err)
		}

		latest, err := s.repo.FindLatest(ctx, tx, userID)
		if err != nil {
			return cascade.Fail("find_latest", err)
		}
		wasNewest := latest == nil || !time.Time(latest.LogDate).After(date)
		if wasNewest {
			if err := s.recomputeCurrentState(ctx, tx, userID, latest); err != nil {
				return cascade.Fail("update_current_state", err)
			}
		}

		updated, err := s.profileRepo.FindByUser(ctx, tx, userID)
		if err != nil {
			return cascade.Fail("load_profile", err)
		}

		result = bodydomain.MutationResult{
			DailyLog:     log,
			CurrentState: updated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// WeightHistory returns the user's body records for the trailing window,
// ascending by date. Used by goal projection.
func (s *Service) WeightHistory(ctx context.Context, userID snowflake.ID, days int) ([]bodydomain.BodyRecord, error) {
	if userID == 0 {
		return nil, bodydomain.ErrInvalidUser
	}
	if days <= 0 {
		days = 30
	}
	today := dailylogdomain.LogicalDate(s.clock.Now(), s.loc)
	return s.repo.ListRange(ctx, s.db, userID, today.AddDate(0, 0, -(days-1)), today)
}

// recomputeCurrentState rebuilds the profile snapshot from the newest
// remaining record after a delete, or resets it when none remain.
func (s *Service) recomputeCurrentState(ctx context.Context, tx *gorm.DB, userID snowflake.ID, latest *bodydomain.BodyRecord) error {
	now := s.clock.Now()
	if latest == nil {
		return s.profileRepo.UpdateCurrentState(ctx, tx, userID, profiledomain.CurrentState{UpdatedAt: &now})
	}

	state := profiledomain.CurrentState{
		WeightKg:     &latest.WeightKg,
		BodyFatPct:   latest.BodyFatPct,
		MuscleMassKg: latest.MuscleMassKg,
		UpdatedAt:    &now,
	}
	snap, err := s.repo.FindSnapshot(ctx, tx, userID, time.Time(latest.LogDate))
	if err != nil {
		return err
	}
	if snap != nil {
		state.BMR = &snap.BMR
		state.TDEE = &snap.TDEE
	}
	return s.profileRepo.UpdateCurrentState(ctx, tx, userID, state)
}

func (s *Service) computeMetabolism(profile *profiledomain.Profile, weightKg decimal.Decimal, bodyFatPct *decimal.Decimal, date time.Time) (int64, decimal.Decimal, error) {
	in := metabolism.BMRInput{
		WeightKg:       weightKg,
		BodyFatPercent: bodyFatPct,
	}
	if bodyFatPct == nil {
		gender := metabolism.Gender(profile.Gender)
		age := profile.AgeAt(date)
		in.HeightCm = &profile.HeightCm
		in.AgeYears = &age
		in.Gender = &gender
	}
	bmr, err := metabolism.CalculateBMR(in)
	if err != nil {
		return 0, decimal.Zero, err
	}
	tdee, err := metabolism.CalculateTDEE(bmr, metabolism.ActivityLevel(profile.ActivityLevel))
	if err != nil {
		return 0, decimal.Zero, err
	}
	return bmr, tdee, nil
}
