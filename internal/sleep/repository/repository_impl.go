package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	sleepdomain "github.com/nutrilog/nutrilog/internal/sleep/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() sleepdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *sleepdomain.SleepRecord) error {
	return db.WithContext(ctx).Create(rec).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rec *sleepdomain.SleepRecord) error {
	return db.WithContext(ctx).Save(rec).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&sleepdomain.SleepRecord{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*sleepdomain.SleepRecord, error) {
	var rec sleepdomain.SleepRecord
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

func (r *repo) ListByDate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) ([]sleepdomain.SleepRecord, error) {
	var recs []sleepdomain.SleepRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, datatypes.Date(date)).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// SleepSummary implements dailylog's rebuild source for the sleep family:
// durations sum, the longest session's status wins. Nil fields when no
// records remain for the date.
func (r *repo) SleepSummary(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.SleepSummary, error) {
	recs, err := r.ListByDate(ctx, db, userID, date)
	if err != nil {
		return dailylogdomain.SleepSummary{}, err
	}
	if len(recs) == 0 {
		return dailylogdomain.SleepSummary{}, nil
	}

	total := 0
	longest := recs[0]
	for _, rec := range recs {
		total += rec.DurationMinutes
		if rec.DurationMinutes > longest.DurationMinutes {
			longest = rec
		}
	}
	status := longest.Status
	return dailylogdomain.SleepSummary{Minutes: &total, Status: &status}, nil
}
