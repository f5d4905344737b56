package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	exercisedomain "github.com/nutrilog/nutrilog/internal/exercise/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() exercisedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *exercisedomain.ExerciseRecord) error {
	return db.WithContext(ctx).Create(rec).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rec *exercisedomain.ExerciseRecord) error {
	return db.WithContext(ctx).Save(rec).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&exercisedomain.ExerciseRecord{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*exercisedomain.ExerciseRecord, error) {
	var rec exercisedomain.ExerciseRecord
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

func (r *repo) ListByDate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) ([]exercisedomain.ExerciseRecord, error) {
	var recs []exercisedomain.ExerciseRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, datatypes.Date(date)).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// ExerciseTotals implements dailylog's rebuild source for the exercise family.
func (r *repo) ExerciseTotals(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.ExerciseTotals, error) {
	recs, err := r.ListByDate(ctx, db, userID, date)
	if err != nil {
		return dailylogdomain.ExerciseTotals{}, err
	}
	var out dailylogdomain.ExerciseTotals
	for i := range recs {
		out.Calories += recs[i].Calories
		out.Minutes += recs[i].DurationMinutes
		out.Count++
	}
	return out, nil
}
