package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidServingSize = errors.New("invalid_serving_size")
	ErrInvalidNutrient    = errors.New("invalid_nutrient")
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Food, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Food, error)
	Search(ctx context.Context, query string, limit int) ([]Food, error)
}

type CreateRequest struct {
	Name             string
	Brand            string
	ServingSizeGrams decimal.Decimal
	Calories         decimal.Decimal
	CarbsG           decimal.Decimal
	ProteinG         decimal.Decimal
	FatG             decimal.Decimal
	SodiumMg         *decimal.Decimal
	FiberG           *decimal.Decimal
	SugarG           *decimal.Decimal
	Extras           datatypes.JSONMap
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, food *Food) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Food, error)
	Search(ctx context.Context, db *gorm.DB, query string, limit int) ([]Food, error)
}
