package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() dailylogdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, log *dailylogdomain.DailyLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, log *dailylogdomain.DailyLog) error {
	// Save writes every column so cleared optional fields persist as NULL.
	return db.WithContext(ctx).Save(log).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, userID snowflake.ID, date time.Time) (*dailylogdomain.DailyLog, error) {
	var log dailylogdomain.DailyLog
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, datatypes.Date(date)).
		Take(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *repo) FindRange(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) ([]dailylogdomain.DailyLog, error) {
	var logs []dailylogdomain.DailyLog
	err := db.WithContext(ctx).
		Where("user_id = ? AND log_date >= ? AND log_date <= ?", userID, datatypes.Date(from), datatypes.Date(to)).
		Order("log_date ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
