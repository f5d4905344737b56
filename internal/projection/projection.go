// Package projection estimates goal achievement dates from a weight history.
// The estimator adapts to how much history exists: a fresh goal falls back to
// the goal's planned weekly rate, a short history uses exponential smoothing,
// and two weeks or more of data use a 7-day moving average trend.
package projection

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoProjection reports that the observed trend is flat, so no achievement
// date can be projected. This is an expected business outcome, not a fault.
var ErrNoProjection = errors.New("no_projection")

var (
	ErrEmptyHistory = errors.New("empty_history")
	seven           = decimal.NewFromInt(7)
)

type Strategy string

const (
	StrategyLinear               Strategy = "linear"
	StrategyExponentialSmoothing Strategy = "exponential_smoothing"
	StrategyMovingAverage        Strategy = "moving_average"
)

// smoothingAlpha is the exponential smoothing constant.
var smoothingAlpha = decimal.RequireFromString("0.2")

// Sample is one weight measurement, one per logical date, ascending.
type Sample struct {
	Date     time.Time
	WeightKg decimal.Decimal
}

// Input carries everything Project needs. History must be sorted ascending by
// date; the last sample is the current weight.
type Input struct {
	History        []Sample
	TargetWeightKg decimal.Decimal
	// WeeklyRateKg is the goal's planned rate, used only by the linear
	// strategy before enough history exists.
	WeeklyRateKg decimal.Decimal
	Today        time.Time
}

// Result is a successful projection.
type Result struct {
	Strategy      Strategy
	DailyTrendKg  decimal.Decimal
	DaysRemaining int64
	ProjectedDate time.Time
}

// SelectStrategy picks the estimator tier for a history length in days.
func SelectStrategy(historyDays int) Strategy {
	switch {
	case historyDays < 7:
		return StrategyLinear
	case historyDays < 14:
		return StrategyExponentialSmoothing
	default:
		return StrategyMovingAverage
	}
}

// Project estimates when the target weight will be reached. It returns
// ErrNoProjection when the applicable trend is zero.
func Project(in Input) (Result, error) {
	if len(in.History) == 0 {
		return Result{}, ErrEmptyHistory
	}

	strategy := SelectStrategy(len(in.History))
	current := in.History[len(in.History)-1].WeightKg
	remaining := current.Sub(in.TargetWeightKg).Abs()

	var trend decimal.Decimal
	switch strategy {
	case StrategyLinear:
		trend = in.WeeklyRateKg.Div(seven)
	case StrategyExponentialSmoothing:
		trend = smoothedTrend(in.History)
	case StrategyMovingAverage:
		trend = movingAverageTrend(in.History)
	}

	if trend.IsZero() {
		return Result{}, ErrNoProjection
	}

	days := remaining.Div(trend.Abs()).Ceil().IntPart()
	return Result{
		Strategy:      strategy,
		DailyTrendKg:  trend,
		DaysRemaining: days,
		ProjectedDate: in.Today.AddDate(0, 0, int(days)),
	}, nil
}

// smoothedTrend runs exponential smoothing over the full series and returns
// the difference between the last two smoothed values:
//
//	S(1) = Y(1); S(t) = alpha*Y(t) + (1-alpha)*S(t-1)
func smoothedTrend(history []Sample) decimal.Decimal {
	s := history[0].WeightKg
	prev := s
	for _, sample := range history[1:] {
		prev = s
		s = smoothingAlpha.Mul(sample.WeightKg).
			Add(decimal.NewFromInt(1).Sub(smoothingAlpha).Mul(s))
	}
	return s.Sub(prev)
}

// movingAverageTrend compares the 7-day moving average ending today with the
// one ending seven days earlier, scaled back to a daily rate.
func movingAverageTrend(history []Sample) decimal.Decimal {
	n := len(history)
	maNow := windowMean(history[n-7 : n])
	maPrior := windowMean(history[n-14 : n-7])
	return maNow.Sub(maPrior).Div(seven)
}

func windowMean(window []Sample) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range window {
		sum = sum.Add(s.WeightKg)
	}
	return sum.Div(decimal.NewFromInt(int64(len(window))))
}
