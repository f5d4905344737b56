package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	goaldomain "github.com/nutrilog/nutrilog/internal/goal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() goaldomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, goal *goaldomain.Goal) error {
	return db.WithContext(ctx).Save(goal).Error
}

func (r *repo) FindByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*goaldomain.Goal, error) {
	var goal goaldomain.Goal
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}
