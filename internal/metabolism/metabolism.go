// Package metabolism implements basal and total metabolic rate calculation.
// All arithmetic uses decimal values so repeated recomputation of the same
// inputs always lands on the same stored kcal figure.
package metabolism

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidWeight        = errors.New("invalid_weight")
	ErrMissingHeight        = errors.New("missing_height")
	ErrMissingAge           = errors.New("missing_age")
	ErrMissingGender        = errors.New("missing_gender")
	ErrInvalidBMR           = errors.New("invalid_bmr")
	ErrInvalidActivityLevel = errors.New("invalid_activity_level")
)

// Gender selects the Mifflin-St Jeor constant.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel is the 1..5 tier mapped to a fixed TDEE multiplier.
type ActivityLevel int

const (
	ActivitySedentary  ActivityLevel = 1
	ActivityLight      ActivityLevel = 2
	ActivityModerate   ActivityLevel = 3
	ActivityActive     ActivityLevel = 4
	ActivityVeryActive ActivityLevel = 5
)

// activityMultipliers is the single source of truth for valid activity levels.
var activityMultipliers = map[ActivityLevel]decimal.Decimal{
	ActivitySedentary:  decimal.RequireFromString("1.2"),
	ActivityLight:      decimal.RequireFromString("1.375"),
	ActivityModerate:   decimal.RequireFromString("1.55"),
	ActivityActive:     decimal.RequireFromString("1.725"),
	ActivityVeryActive: decimal.RequireFromString("1.9"),
}

func (l ActivityLevel) Valid() bool {
	_, ok := activityMultipliers[l]
	return ok
}

var (
	katchBase   = decimal.NewFromInt(370)
	katchFactor = decimal.RequireFromString("21.6")
	hundred     = decimal.NewFromInt(100)

	mifflinWeight = decimal.NewFromInt(10)
	mifflinHeight = decimal.RequireFromString("6.25")
	mifflinAge    = decimal.NewFromInt(5)
	maleOffset    = decimal.NewFromInt(5)
	femaleOffset  = decimal.NewFromInt(-161)
)

// BMRInput carries body-composition inputs for CalculateBMR. Height, age and
// gender are only required when BodyFatPercent is absent.
type BMRInput struct {
	WeightKg       decimal.Decimal
	HeightCm       *decimal.Decimal
	AgeYears       *int
	Gender         *Gender
	BodyFatPercent *decimal.Decimal
}

// CalculateBMR returns the basal metabolic rate in whole kcal/day.
//
// With body-fat percent present it uses Katch-McArdle:
//
//	BMR = 370 + 21.6 * weight * (1 - bodyFat/100)
//
// otherwise Mifflin-St Jeor:
//
//	BMR = 10*weight + 6.25*height - 5*age + (male: +5, female: -161)
func CalculateBMR(in BMRInput) (int64, error) {
	if in.WeightKg.LessThanOrEqual(decimal.Zero) {
		return 0, ErrInvalidWeight
	}

	if in.BodyFatPercent != nil {
		leanMass := in.WeightKg.Mul(decimal.NewFromInt(1).Sub(in.BodyFatPercent.Div(hundred)))
		bmr := katchBase.Add(katchFactor.Mul(leanMass))
		return bmr.Round(0).IntPart(), nil
	}

	if in.HeightCm == nil {
		return 0, ErrMissingHeight
	}
	if in.AgeYears == nil {
		return 0, ErrMissingAge
	}
	if in.Gender == nil {
		return 0, ErrMissingGender
	}

	bmr := mifflinWeight.Mul(in.WeightKg).
		Add(mifflinHeight.Mul(*in.HeightCm)).
		Sub(mifflinAge.Mul(decimal.NewFromInt(int64(*in.AgeYears))))
	if *in.Gender == GenderFemale {
		bmr = bmr.Add(femaleOffset)
	} else {
		bmr = bmr.Add(maleOffset)
	}

	return bmr.Round(0).IntPart(), nil
}

// CalculateTDEE multiplies a BMR by the activity tier multiplier. The result
// keeps one decimal place; 1650 kcal at tier 3 is 2557.5, not 2557.
func CalculateTDEE(bmr int64, level ActivityLevel) (decimal.Decimal, error) {
	if bmr <= 0 {
		return decimal.Zero, ErrInvalidBMR
	}
	mult, ok := activityMultipliers[level]
	if !ok {
		return decimal.Zero, ErrInvalidActivityLevel
	}
	return decimal.NewFromInt(bmr).Mul(mult).Round(1), nil
}

// ExerciseCalories estimates kcal burned from a MET value, an intensity
// factor, body weight and duration: MET * factor * weight(kg) * hours.
func ExerciseCalories(met, intensityFactor, weightKg decimal.Decimal, minutes int) (int64, error) {
	if weightKg.LessThanOrEqual(decimal.Zero) {
		return 0, ErrInvalidWeight
	}
	hours := decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
	kcal := met.Mul(intensityFactor).Mul(weightKg).Mul(hours)
	return kcal.Round(0).IntPart(), nil
}
