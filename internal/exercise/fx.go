package exercise

import (
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	exercisedomain "github.com/nutrilog/nutrilog/internal/exercise/domain"
	"github.com/nutrilog/nutrilog/internal/exercise/repository"
	"github.com/nutrilog/nutrilog/internal/exercise/service"
	"go.uber.org/fx"
)

var Module = fx.Module("exercise.service",
	fx.Provide(
		repository.Provide,
		func(r exercisedomain.Repository) dailylogdomain.ExerciseSource {
			return r.(dailylogdomain.ExerciseSource)
		},
	),
	fx.Provide(service.New),
)
