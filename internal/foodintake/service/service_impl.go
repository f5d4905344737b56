package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nutrilog/nutrilog/internal/cascade"
	catalogdomain "github.com/nutrilog/nutrilog/internal/catalog/domain"
	"github.com/nutrilog/nutrilog/internal/clock"
	"github.com/nutrilog/nutrilog/internal/config"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	intakedomain "github.com/nutrilog/nutrilog/internal/foodintake/domain"
	"github.com/nutrilog/nutrilog/internal/nutrition"
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
	Repo        intakedomain.Repository
	CatalogRepo catalogdomain.Repository
	DailyLog    dailylogdomain.Service
	Metrics     *cascade.Metrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	loc         *time.Location
	clock       clock.Clock
	genID       *snowflake.Node
	repo        intakedomain.Repository
	catalogRepo catalogdomain.Repository
	dailyLog    dailylogdomain.Service
	metrics     *cascade.Metrics
}

func New(p Params) intakedomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("foodintake.service"),
		loc:         p.Cfg.Location(),
		clock:       p.Clock,
		genID:       p.GenID,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		dailyLog:    p.DailyLog,
		metrics:     p.Metrics,
	}
}

func (s *Service) Save(ctx context.Context, req intakedomain.SaveRequest) (*intakedomain.MutationResult, error) {
	start := time.Now()
	res, err := s.save(ctx, req)
	s.metrics.Observe("food", "save", start, err)
	return res, err
}

func (s *Service) save(ctx context.Context, req intakedomain.SaveRequest) (*intakedomain.MutationResult, error) {
	if req.UserID == 0 {
		return nil, intakedomain.ErrInvalidUser
	}
	if req.FoodID == 0 {
		return nil, intakedomain.ErrFoodMissing
	}

	date := dailylogdomain.LogicalDate(req.RecordedAt, s.loc)

	var result intakedomain.MutationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		food, err := s.catalogRepo.FindByID(ctx, tx, req.FoodID)
		if err != nil {
			return cascade.Fail("load_food", err)
		}
		if food == nil {
			return intakedomain.ErrFoodMissing
		}

		values, err := nutrition.Scale(food.Facts(), req.Quantity, req.Unit)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		rec := &intakedomain.FoodIntake{
			ID:        s.genID.Generate(),
			UserID:    req.UserID,
			LogDate:   datatypes.Date(date),
			FoodID:    food.ID,
			FoodName:  food.Name,
			MealType:  req.MealType,
			Quantity:  req.Quantity,
			Unit:      string(req.Unit),
			Calories:  values.Calories,
			CarbsG:    values.CarbsG,
			ProteinG:  values.ProteinG,
			FatG:      values.FatG,
			SodiumMg:  values.SodiumMg,
			FiberG:    values.FiberG,
			SugarG:    values.SugarG,
			CreatedAt: now,
			UpdatedAt: now,
		}

		delta := rec.Delta()
		if req.ID != 0 {
			old, err := s.repo.FindByID(ctx, tx, req.UserID, req.ID)
			if err != nil {
				return cascade.Fail("load_record", err)
			}
			if old == nil {
				return intakedomain.ErrNotFound
			}
			// An edit may move the record to a new logical date; remove
			// the old contribution where it was, add the new one where
			// it lands.
			oldDate := time.Time(old.LogDate)
			rec.ID = old.ID
			rec.CreatedAt = old.CreatedAt
			if oldDate.Equal(date) {
				delta = delta.Sub(old.Delta())
			} else {
				if _, err := s.dailyLog.ApplyNutritionDelta(ctx, tx, req.UserID, oldDate, old.Delta().Negate()); err != nil {
					return cascade.Fail("apply_nutrition_delta", err)
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

		log, err := s.dailyLog.ApplyNutritionDelta(ctx, tx, req.UserID, date, delta)
		if err != nil {
			return cascade.Fail("apply_nutrition_delta", err)
		}

		result = intakedomain.MutationResult{Record: rec, DailyLog: log}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) (*intakedomain.MutationResult, error) {
	start := time.Now()
	res, err := s.delete(ctx, userID, id)
	s.metrics.Observe("food", "delete", start, err)
	return res, err
}

func (s *Service) delete(ctx context.Context, userID, id snowflake.ID) (*intakedomain.MutationResult, error) {
	if userID == 0 {
		return nil, intakedomain.ErrInvalidUser
	}
	if id == 0 {
		return nil, intakedomain.ErrInvalidID
	}

	var result intakedomain.MutationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.repo.FindByID(ctx, tx, userID, id)
		if err != nil {
			return cascade.Fail("load_record", err)
		}
		if rec == nil {
			return intakedomain.ErrNotFound
		}

		if err := s.repo.Delete(ctx, tx, userID, id); err != nil {
			return cascade.Fail("persist_record", err)
		}
		log, err := s.dailyLog.ApplyNutritionDelta(ctx, tx, userID, time.Time(rec.LogDate), rec.Delta().Negate())
		if err != nil {
			return cascade.Fail("apply_nutrition_delta", err)
		}

		result = intakedomain.MutationResult{DailyLog: log}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ListByDate(ctx context.Context, userID snowflake.ID, date time.Time) ([]intakedomain.FoodIntake, error) {
	if userID == 0 {
		return nil, intakedomain.ErrInvalidUser
	}
	return s.repo.ListByDate(ctx, s.db, userID, date)
}
