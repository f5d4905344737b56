package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/nutrilog/nutrilog/internal/catalog/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  catalogdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  catalogdomain.Repository
}

func New(p Params) catalogdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req catalogdomain.CreateRequest) (*catalogdomain.Food, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}
	if req.ServingSizeGrams.LessThanOrEqual(decimal.Zero) {
		return nil, catalogdomain.ErrInvalidServingSize
	}
	if req.Calories.IsNegative() || req.CarbsG.IsNegative() || req.ProteinG.IsNegative() || req.FatG.IsNegative() {
		return nil, catalogdomain.ErrInvalidNutrient
	}

	now := time.Now().UTC()
	food := &catalogdomain.Food{
		ID:               s.genID.Generate(),
		Name:             name,
		Brand:            strings.TrimSpace(req.Brand),
		ServingSizeGrams: req.ServingSizeGrams,
		Calories:         req.Calories,
		CarbsG:           req.CarbsG,
		ProteinG:         req.ProteinG,
		FatG:             req.FatG,
		SodiumMg:         req.SodiumMg,
		FiberG:           req.FiberG,
		SugarG:           req.SugarG,
		Extras:           req.Extras,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, s.db, food); err != nil {
		return nil, err
	}
	return food, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*catalogdomain.Food, error) {
	if id == 0 {
		return nil, catalogdomain.ErrInvalidID
	}
	food, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, catalogdomain.ErrNotFound
	}
	return food, nil
}

func (s *Service) Search(ctx context.Context, query string, limit int) ([]catalogdomain.Food, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.repo.Search(ctx, s.db, strings.TrimSpace(query), limit)
}
