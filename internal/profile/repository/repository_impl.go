package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() profiledomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, profile *profiledomain.Profile) error {
	return db.WithContext(ctx).Save(profile).Error
}

func (r *repo) FindByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*profiledomain.Profile, error) {
	var profile profiledomain.Profile
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) UpdateCurrentState(ctx context.Context, db *gorm.DB, userID snowflake.ID, state profiledomain.CurrentState) error {
	// Explicit column map so nil fields overwrite to NULL instead of being
	// skipped by gorm's zero-value handling.
	return db.WithContext(ctx).
		Model(&profiledomain.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_weight_kg":      state.WeightKg,
			"current_body_fat_pct":   state.BodyFatPct,
			"current_muscle_mass_kg": state.MuscleMassKg,
			"current_bmr":            state.BMR,
			"current_tdee":           state.TDEE,
			"state_updated_at":       state.UpdatedAt,
		}).Error
}
