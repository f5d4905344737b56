package nutrition

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testFacts() Facts {
	return Facts{
		ServingSizeGrams: dec("150"),
		Calories:         dec("300"),
		CarbsG:           dec("40"),
		ProteinG:         dec("20"),
		FatG:             dec("10"),
		FiberG:           decPtr("3.5"),
	}
}

func TestScaleByServings(t *testing.T) {
	out, err := Scale(testFacts(), dec("2"), UnitServing)
	assert.NoError(t, err)
	assert.Equal(t, int64(600), out.Calories)
	assert.True(t, out.CarbsG.Equal(dec("80")), "carbs %s", out.CarbsG)
	assert.True(t, out.ProteinG.Equal(dec("40")), "protein %s", out.ProteinG)
	assert.True(t, out.FatG.Equal(dec("20")), "fat %s", out.FatG)
}

func TestScaleByGrams(t *testing.T) {
	// 75g of a 150g serving is half the facts.
	out, err := Scale(testFacts(), dec("75"), UnitGrams)
	assert.NoError(t, err)
	assert.Equal(t, int64(150), out.Calories)
	assert.True(t, out.CarbsG.Equal(dec("20")))
	assert.True(t, out.ProteinG.Equal(dec("10")))
	assert.True(t, out.FatG.Equal(dec("5")))
}

func TestScaleRounding(t *testing.T) {
	// 100g of a 150g serving: calories 300*2/3 = 200, carbs 40*2/3 = 26.7
	out, err := Scale(testFacts(), dec("100"), UnitGrams)
	assert.NoError(t, err)
	assert.Equal(t, int64(200), out.Calories)
	assert.True(t, out.CarbsG.Equal(dec("26.7")), "carbs %s", out.CarbsG)
	assert.True(t, out.ProteinG.Equal(dec("13.3")), "protein %s", out.ProteinG)
	assert.True(t, out.FatG.Equal(dec("6.7")), "fat %s", out.FatG)
}

func TestScaleOptionalNutrients(t *testing.T) {
	out, err := Scale(testFacts(), dec("2"), UnitServing)
	assert.NoError(t, err)
	if assert.NotNil(t, out.FiberG) {
		assert.True(t, out.FiberG.Equal(dec("7")), "fiber %s", out.FiberG)
	}
	// Absent in the source food stays absent in the result.
	assert.Nil(t, out.SodiumMg)
	assert.Nil(t, out.SugarG)
}

func TestScaleDegenerateServingSize(t *testing.T) {
	f := testFacts()
	f.ServingSizeGrams = decimal.Zero

	_, err := Scale(f, dec("100"), UnitGrams)
	assert.True(t, errors.Is(err, ErrInvalidServingSize), "got %v", err)

	// Serving unit never divides by serving size, so it still works.
	out, err := Scale(f, dec("1"), UnitServing)
	assert.NoError(t, err)
	assert.Equal(t, int64(300), out.Calories)
}

func TestScaleInvalidInput(t *testing.T) {
	_, err := Scale(testFacts(), decimal.Zero, UnitServing)
	assert.True(t, errors.Is(err, ErrInvalidQuantity), "got %v", err)

	_, err = Scale(testFacts(), dec("1"), Unit("cups"))
	assert.True(t, errors.Is(err, ErrInvalidUnit), "got %v", err)
}
