// Package nutrition scales per-serving nutrition facts by consumed quantity.
package nutrition

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInvalidServingSize = errors.New("invalid_serving_size")
	ErrInvalidUnit        = errors.New("invalid_unit")
)

// Unit is the quantity unit of a food intake.
type Unit string

const (
	UnitServing Unit = "serving"
	UnitGrams   Unit = "grams"
)

func (u Unit) Valid() bool {
	return u == UnitServing || u == UnitGrams
}

// Facts are the per-serving nutrition facts of a catalog food.
// Sodium, fiber and sugar are optional in most food databases.
type Facts struct {
	ServingSizeGrams decimal.Decimal
	Calories         decimal.Decimal
	CarbsG           decimal.Decimal
	ProteinG         decimal.Decimal
	FatG             decimal.Decimal
	SodiumMg         *decimal.Decimal
	FiberG           *decimal.Decimal
	SugarG           *decimal.Decimal
}

// Values are scaled nutrition values for a consumed quantity. Calories are
// whole kcal, gram values keep one decimal place. Optional nutrients stay nil
// when the source food does not carry them.
type Values struct {
	Calories int64
	CarbsG   decimal.Decimal
	ProteinG decimal.Decimal
	FatG     decimal.Decimal
	SodiumMg *decimal.Decimal
	FiberG   *decimal.Decimal
	SugarG   *decimal.Decimal
}

// Scale multiplies the food's per-serving facts by the consumed quantity.
// A serving quantity scales directly; a gram quantity scales by
// quantity / servingSizeGrams.
func Scale(f Facts, quantity decimal.Decimal, unit Unit) (Values, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return Values{}, ErrInvalidQuantity
	}

	var multiplier decimal.Decimal
	switch unit {
	case UnitServing:
		multiplier = quantity
	case UnitGrams:
		// Degenerate catalog rows must fail loudly, not scale to zero.
		if f.ServingSizeGrams.LessThanOrEqual(decimal.Zero) {
			return Values{}, ErrInvalidServingSize
		}
		multiplier = quantity.Div(f.ServingSizeGrams)
	default:
		return Values{}, ErrInvalidUnit
	}

	out := Values{
		Calories: f.Calories.Mul(multiplier).Round(0).IntPart(),
		CarbsG:   f.CarbsG.Mul(multiplier).Round(1),
		ProteinG: f.ProteinG.Mul(multiplier).Round(1),
		FatG:     f.FatG.Mul(multiplier).Round(1),
	}
	if f.SodiumMg != nil {
		v := f.SodiumMg.Mul(multiplier).Round(1)
		out.SodiumMg = &v
	}
	if f.FiberG != nil {
		v := f.FiberG.Mul(multiplier).Round(1)
		out.FiberG = &v
	}
	if f.SugarG != nil {
		v := f.SugarG.Mul(multiplier).Round(1)
		out.SugarG = &v
	}
	return out, nil
}
