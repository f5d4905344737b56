package clock

import "go.uber.org/fx"

func provideSystem() Clock {
	return SystemClock{}
}

// Module provides the system clock.
var Module = fx.Module("clock",
	fx.Provide(provideSystem),
)
