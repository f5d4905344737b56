package foodintake

import (
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	intakedomain "github.com/nutrilog/nutrilog/internal/foodintake/domain"
	"github.com/nutrilog/nutrilog/internal/foodintake/repository"
	"github.com/nutrilog/nutrilog/internal/foodintake/service"
	"go.uber.org/fx"
)

var Module = fx.Module("foodintake.service",
	fx.Provide(
		repository.Provide,
		func(r intakedomain.Repository) dailylogdomain.NutritionSource {
			return r.(dailylogdomain.NutritionSource)
		},
	),
	fx.Provide(service.New),
)
