package projection

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func series(t *testing.T, start string, stepPerDay string, days int) []Sample {
	t.Helper()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	weight := dec(start)
	step := dec(stepPerDay)
	out := make([]Sample, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, Sample{Date: base.AddDate(0, 0, i), WeightKg: weight})
		weight = weight.Add(step)
	}
	return out
}

func TestSelectStrategy(t *testing.T) {
	cases := map[int]Strategy{
		1:  StrategyLinear,
		6:  StrategyLinear,
		7:  StrategyExponentialSmoothing,
		13: StrategyExponentialSmoothing,
		14: StrategyMovingAverage,
		30: StrategyMovingAverage,
	}
	for days, want := range cases {
		if got := SelectStrategy(days); got != want {
			t.Fatalf("days=%d: expected %s, got %s", days, want, got)
		}
	}
}

func TestProjectLinear(t *testing.T) {
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	res, err := Project(Input{
		History:        series(t, "80", "0", 3),
		TargetWeightKg: dec("78"),
		WeeklyRateKg:   dec("-0.7"),
		Today:          today,
	})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if res.Strategy != StrategyLinear {
		t.Fatalf("expected linear strategy, got %s", res.Strategy)
	}
	// 2 kg remaining at 0.1 kg/day.
	if res.DaysRemaining != 20 {
		t.Fatalf("expected 20 days, got %d", res.DaysRemaining)
	}
	if !res.ProjectedDate.Equal(today.AddDate(0, 0, 20)) {
		t.Fatalf("unexpected projected date %s", res.ProjectedDate)
	}
}

func TestProjectLinearZeroRate(t *testing.T) {
	_, err := Project(Input{
		History:        series(t, "80", "0", 3),
		TargetWeightKg: dec("78"),
		WeeklyRateKg:   decimal.Zero,
		Today:          time.Now(),
	})
	if !errors.Is(err, ErrNoProjection) {
		t.Fatalf("expected ErrNoProjection, got %v", err)
	}
}

func TestProjectExponentialSmoothing(t *testing.T) {
	// Seven samples stepping -0.5/day. Hand-computed smoothing:
	// S7 = 78.475712, S6 = 78.84464, trend = -0.368928.
	// 2 kg remaining -> ceil(2 / 0.368928) = 6 days.
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	res, err := Project(Input{
		History:        series(t, "80", "-0.5", 7),
		TargetWeightKg: dec("75"),
		WeeklyRateKg:   dec("-0.5"),
		Today:          today,
	})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if res.Strategy != StrategyExponentialSmoothing {
		t.Fatalf("expected smoothing strategy, got %s", res.Strategy)
	}
	if !res.DailyTrendKg.Equal(dec("-0.368928")) {
		t.Fatalf("expected trend -0.368928, got %s", res.DailyTrendKg)
	}
	if res.DaysRemaining != 6 {
		t.Fatalf("expected 6 days, got %d", res.DaysRemaining)
	}
}

func TestProjectMovingAverage(t *testing.T) {
	// Twenty days at a steady -0.1 kg/day with 4.2 kg remaining: both MA
	// windows are linear, so the weekly trend is exactly -0.7.
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	history := series(t, "80", "-0.1", 20)
	current := history[len(history)-1].WeightKg

	res, err := Project(Input{
		History:        history,
		TargetWeightKg: current.Sub(dec("4.2")),
		WeeklyRateKg:   dec("-0.5"),
		Today:          today,
	})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if res.Strategy != StrategyMovingAverage {
		t.Fatalf("expected moving average strategy, got %s", res.Strategy)
	}
	if !res.DailyTrendKg.Equal(dec("-0.1")) {
		t.Fatalf("expected trend -0.1, got %s", res.DailyTrendKg)
	}
	if res.DaysRemaining != 42 {
		t.Fatalf("expected 42 days, got %d", res.DaysRemaining)
	}
	if !res.ProjectedDate.Equal(today.AddDate(0, 0, 42)) {
		t.Fatalf("unexpected projected date %s", res.ProjectedDate)
	}
}

func TestProjectFlatTrend(t *testing.T) {
	_, err := Project(Input{
		History:        series(t, "80", "0", 20),
		TargetWeightKg: dec("75"),
		WeeklyRateKg:   dec("-0.5"),
		Today:          time.Now(),
	})
	if !errors.Is(err, ErrNoProjection) {
		t.Fatalf("expected ErrNoProjection, got %v", err)
	}
}

func TestProjectEmptyHistory(t *testing.T) {
	_, err := Project(Input{TargetWeightKg: dec("75"), Today: time.Now()})
	if !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}
}
