package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/nutrilog/nutrilog/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, food *catalogdomain.Food) error {
	return db.WithContext(ctx).Create(food).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.Food, error) {
	var food catalogdomain.Food
	err := db.WithContext(ctx).Where("id = ?", id).Take(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *repo) Search(ctx context.Context, db *gorm.DB, query string, limit int) ([]catalogdomain.Food, error) {
	var foods []catalogdomain.Food
	err := db.WithContext(ctx).
		Where("name LIKE ?", query+"%").
		Order("name ASC").
		Limit(limit).
		Find(&foods).Error
	if err != nil {
		return nil, err
	}
	return foods, nil
}
