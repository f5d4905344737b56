package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	intakedomain "github.com/nutrilog/nutrilog/internal/foodintake/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() intakedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *intakedomain.FoodIntake) error {
	return db.WithContext(ctx).Create(rec).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rec *intakedomain.FoodIntake) error {
	return db.WithContext(ctx).Save(rec).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&intakedomain.FoodIntake{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*intakedomain.FoodIntake, error) {
	var rec intakedomain.FoodIntake
	err := db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo) ListByDate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) ([]intakedomain.FoodIntake, error) {
	var recs []intakedomain.FoodIntake
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, datatypes.Date(date)).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// NutritionTotals implements dailylog's rebuild source for the nutrition
// family by summing the stored per-record values, not by rescaling from the
// catalog. The aggregate must reconcile against what the records say.
func (r *repo) NutritionTotals(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.NutritionTotals, error) {
	recs, err := r.ListByDate(ctx, db, userID, date)
	if err != nil {
		return dailylogdomain.NutritionTotals{}, err
	}
	var out dailylogdomain.NutritionTotals
	for i := range recs {
		out.Calories += recs[i].Calories
		out.CarbsG = out.CarbsG.Add(recs[i].CarbsG)
		out.ProteinG = out.ProteinG.Add(recs[i].ProteinG)
		out.FatG = out.FatG.Add(recs[i].FatG)
	}
	return out, nil
}
