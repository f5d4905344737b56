package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	bodydomain "github.com/nutrilog/nutrilog/internal/bodyrecord/domain"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() bodydomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, rec *bodydomain.BodyRecord) error {
	return db.WithContext(ctx).Save(rec).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&bodydomain.BodyRecord{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*bodydomain.BodyRecord, error) {
	var rec bodydomain.BodyRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Take(&rec).Error
	return nilIfNotFound(&rec, err)
}

func (r *repo) FindByDate(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (*bodydomain.BodyRecord, error) {
	var rec bodydomain.BodyRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, datatypes.Date(date)).
		Take(&rec).Error
	return nilIfNotFound(&rec, err)
}

func (r *repo) FindLatest(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*bodydomain.BodyRecord, error) {
	var rec bodydomain.BodyRecord
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("log_date DESC").
		Take(&rec).Error
	return nilIfNotFound(&rec, err)
}

func (r *repo) FindMostRecentBefore(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (*bodydomain.BodyRecord, error) {
	var rec bodydomain.BodyRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date < ?", userID, datatypes.Date(date)).
		Order("log_date DESC").
		Take(&rec).Error
	return nilIfNotFound(&rec, err)
}

func (r *repo) ListRange(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) ([]bodydomain.BodyRecord, error) {
	var recs []bodydomain.BodyRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date >= ? AND log_date <= ?", userID, datatypes.Date(from), datatypes.Date(to)).
		Order("log_date ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *repo) UpsertSnapshot(ctx context.Context, db *gorm.DB, snap *bodydomain.MetabolismSnapshot) error {
	return db.WithContext(ctx).Save(snap).Error
}

func (r *repo) DeleteSnapshot(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, datatypes.Date(date)).
		Delete(&bodydomain.MetabolismSnapshot{}).Error
}

func (r *repo) FindSnapshot(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (*bodydomain.MetabolismSnapshot, error) {
	var snap bodydomain.MetabolismSnapshot
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, datatypes.Date(date)).
		Take(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// BodyDay implements dailylog's rebuild source for the body family.
func (r *repo) BodyDay(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (dailylogdomain.BodyDay, error) {
	rec, err := r.FindByDate(ctx, db, userID, date)
	if err != nil {
		return dailylogdomain.BodyDay{}, err
	}
	if rec == nil {
		return dailylogdomain.BodyDay{}, nil
	}

	out := dailylogdomain.BodyDay{
		WeightKg:   &rec.WeightKg,
		BodyFatPct: rec.BodyFatPct,
	}
	snap, err := r.FindSnapshot(ctx, db, userID, date)
	if err != nil {
		return dailylogdomain.BodyDay{}, err
	}
	if snap != nil {
		out.BMR = snap.BMR
		out.TDEE = snap.TDEE
	}
	return out, nil
}

func nilIfNotFound(rec *bodydomain.BodyRecord, err error) (*bodydomain.BodyRecord, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
