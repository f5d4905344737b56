package sleep

import (
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	sleepdomain "github.com/nutrilog/nutrilog/internal/sleep/domain"
	"github.com/nutrilog/nutrilog/internal/sleep/repository"
	"github.com/nutrilog/nutrilog/internal/sleep/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sleep.service",
	fx.Provide(
		repository.Provide,
		func(r sleepdomain.Repository) dailylogdomain.SleepSource {
			return r.(dailylogdomain.SleepSource)
		},
	),
	fx.Provide(service.New),
)
