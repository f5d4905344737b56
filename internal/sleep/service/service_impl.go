package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nutrilog/nutrilog/internal/cascade"
	"github.com/nutrilog/nutrilog/internal/clock"
	"github.com/nutrilog/nutrilog/internal/config"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	sleepdomain "github.com/nutrilog/nutrilog/internal/sleep/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Cfg      config.Config
	Clock    clock.Clock
	GenID    *snowflake.Node
	Repo     sleepdomain.Repository
	Source   dailylogdomain.SleepSource
	DailyLog dailylogdomain.Service
	Metrics  *cascade.Metrics
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	loc      *time.Location
	clock    clock.Clock
	genID    *snowflake.Node
	repo     sleepdomain.Repository
	source   dailylogdomain.SleepSource
	dailyLog dailylogdomain.Service
	metrics  *cascade.Metrics
}

func New(p Params) sleepdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("sleep.service"),
		loc:      p.Cfg.Location(),
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		source:   p.Source,
		dailyLog: p.DailyLog,
		metrics:  p.Metrics,
	}
}

func (s *Service) Save(ctx context.Context, req sleepdomain.SaveRequest) (*sleepdomain.MutationResult, error) {
	start := time.Now()
	res, err := s.save(ctx, req)
	s.metrics.Observe("sleep", "save", start, err)
	return res, err
}

func (s *Service) save(ctx context.Context, req sleepdomain.SaveRequest) (*sleepdomain.MutationResult, error) {
	if req.UserID == 0 {
		return nil, sleepdomain.ErrInvalidUser
	}
	if req.DurationMinutes <= 0 {
		return nil, sleepdomain.ErrInvalidDuration
	}
	if !req.Status.Valid() {
		return nil, sleepdomain.ErrInvalidStatus
	}

	date := dailylogdomain.LogicalDate(req.RecordedAt, s.loc)

	var result sleepdomain.MutationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now()
		rec := &sleepdomain.SleepRecord{
			ID:              s.genID.Generate(),
			UserID:          req.UserID,
			LogDate:         datatypes.Date(date),
			DurationMinutes: req.DurationMinutes,
			Status:          string(req.Status),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		var oldDate *time.Time
		if req.ID != 0 {
			old, err := s.repo.FindByID(ctx, tx, req.UserID, req.ID)
			if err != nil {
				return cascade.Fail("load_record", err)
			}
			if old == nil {
				return sleepdomain.ErrNotFound
			}
			rec.ID = old.ID
			rec.CreatedAt = old.CreatedAt
			d := time.Time(old.LogDate)
			if !d.Equal(date) {
				oldDate = &d
			}
			if err := s.repo.Update(ctx, tx, rec); err != nil {
				return cascade.Fail("persist_record", err)
			}
		} else {
			if err := s.repo.Insert(ctx, tx, rec); err != nil {
				return cascade.Fail("persist_record", err)
			}
		}

		// An edit that moved the record also leaves a stale summary on
		// the date it moved away from.
		if oldDate != nil {
			if err := s.reapply(ctx, tx, req.UserID, *oldDate); err != nil {
				return err
			}
		}
		log, err := s.apply(ctx, tx, req.UserID, date)
		if err != nil {
			return err
		}

		result = sleepdomain.MutationResult{Record: rec, DailyLog: log}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) (*sleepdomain.MutationResult, error) {
	start := time.Now()
	res, err := s.delete(ctx, userID, id)
	s.metrics.Observe("sleep", "delete", start, err)
	return res, err
}

func (s *Service) delete(ctx context.Context, userID, id snowflake.ID) (*sleepdomain.MutationResult, error) {
	if userID == 0 {
		return nil, sleepdomain.ErrInvalidUser
	}
	if id == 0 {
		return nil, sleepdomain.ErrInvalidID
	}

	var result sleepdomain.MutationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.repo.FindByID(ctx, tx, userID, id)
		if err != nil {
			return cascade.Fail("load_record", err)
		}
		if rec == nil {
			return sleepdomain.ErrNotFound
		}

		if err := s.repo.Delete(ctx, tx, userID, id); err != nil {
			return cascade.Fail("persist_record", err)
		}
		log, err := s.apply(ctx, tx, userID, time.Time(rec.LogDate))
		if err != nil {
			return err
		}

		result = sleepdomain.MutationResult{DailyLog: log}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ListByDate(ctx context.Context, userID snowflake.ID, date time.Time) ([]sleepdomain.SleepRecord, error) {
	if userID == 0 {
		return nil, sleepdomain.ErrInvalidUser
	}
	return s.repo.ListByDate(ctx, s.db, userID, date)
}

func (s *Service) apply(ctx context.Context, tx *gorm.DB, userID snowflake.ID, date time.Time) (*dailylogdomain.DailyLog, error) {
	summary, err := s.source.SleepSummary(ctx, tx, userID, date)
	if err != nil {
		return nil, cascade.Fail("summarize_sleep", err)
	}
	log, err := s.dailyLog.ApplySleep(ctx, tx, userID, date, summary)
	if err != nil {
		return nil, cascade.Fail("apply_sleep", err)
	}
	return log, nil
}

func (s *Service) reapply(ctx context.Context, tx *gorm.DB, userID snowflake.ID, date time.Time) error {
	_, err := s.apply(ctx, tx, userID, date)
	return err
}
