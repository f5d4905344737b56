package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	"github.com/nutrilog/nutrilog/internal/metabolism"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo profiledomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo profiledomain.Repository
}

func New(p Params) *Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("profile.service"),
		repo: p.Repo,
	}
}

func (s *Service) Upsert(ctx context.Context, req profiledomain.UpsertRequest) (*profiledomain.Response, error) {
	if req.UserID == 0 {
		return nil, profiledomain.ErrInvalidUser
	}
	if req.HeightCm.LessThanOrEqual(decimal.Zero) {
		return nil, profiledomain.ErrInvalidHeight
	}
	if req.BirthDate.IsZero() || req.BirthDate.After(time.Now()) {
		return nil, profiledomain.ErrInvalidBirthDate
	}

	gender := strings.ToLower(strings.TrimSpace(req.Gender))
	if gender != string(metabolism.GenderMale) && gender != string(metabolism.GenderFemale) {
		return nil, profiledomain.ErrInvalidGender
	}
	if !metabolism.ActivityLevel(req.ActivityLevel).Valid() {
		return nil, profiledomain.ErrInvalidActivityLevel
	}

	existing, err := s.repo.FindByUser(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &profiledomain.Profile{
		UserID:        req.UserID,
		HeightCm:      req.HeightCm,
		BirthDate:     datatypes.Date(req.BirthDate),
		Gender:        gender,
		ActivityLevel: req.ActivityLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if existing != nil {
		// Settings changes keep the cascade-maintained current state.
		profile.CurrentWeightKg = existing.CurrentWeightKg
		profile.CurrentBodyFatPct = existing.CurrentBodyFatPct
		profile.CurrentMuscleMassKg = existing.CurrentMuscleMassKg
		profile.CurrentBMR = existing.CurrentBMR
		profile.CurrentTDEE = existing.CurrentTDEE
		profile.StateUpdatedAt = existing.StateUpdatedAt
		profile.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, s.db, profile); err != nil {
		return nil, err
	}
	return toResponse(profile), nil
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (*profiledomain.Response, error) {
	if userID == 0 {
		return nil, profiledomain.ErrInvalidUser
	}
	profile, err := s.repo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, profiledomain.ErrNotFound
	}
	return toResponse(profile), nil
}

// CurrentMetabolism implements dailylog's MetabolismProvider: new aggregates
// are seeded with the user's current BMR/TDEE, or zero before any body
// record exists.
func (s *Service) CurrentMetabolism(ctx context.Context, db *gorm.DB, userID snowflake.ID) (dailylogdomain.MetabolismSeed, error) {
	profile, err := s.repo.FindByUser(ctx, db, userID)
	if err != nil {
		return dailylogdomain.MetabolismSeed{}, err
	}
	if profile == nil || profile.CurrentBMR == nil {
		return dailylogdomain.MetabolismSeed{TDEE: decimal.Zero}, nil
	}

	seed := dailylogdomain.MetabolismSeed{BMR: *profile.CurrentBMR}
	if profile.CurrentTDEE != nil {
		seed.TDEE = *profile.CurrentTDEE
	}
	return seed, nil
}

func toResponse(p *profiledomain.Profile) *profiledomain.Response {
	return &profiledomain.Response{
		UserID:              p.UserID.String(),
		HeightCm:            p.HeightCm,
		BirthDate:           time.Time(p.BirthDate).Format("2006-01-02"),
		Gender:              p.Gender,
		ActivityLevel:       p.ActivityLevel,
		CurrentWeightKg:     p.CurrentWeightKg,
		CurrentBodyFatPct:   p.CurrentBodyFatPct,
		CurrentMuscleMassKg: p.CurrentMuscleMassKg,
		CurrentBMR:          p.CurrentBMR,
		CurrentTDEE:         p.CurrentTDEE,
		StateUpdatedAt:      p.StateUpdatedAt,
	}
}
