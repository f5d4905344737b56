package bodyrecord

import (
	bodydomain "github.com/nutrilog/nutrilog/internal/bodyrecord/domain"
	"github.com/nutrilog/nutrilog/internal/bodyrecord/repository"
	"github.com/nutrilog/nutrilog/internal/bodyrecord/service"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("bodyrecord.service",
	fx.Provide(
		repository.Provide,
		func(r bodydomain.Repository) dailylogdomain.BodySource {
			return r.(dailylogdomain.BodySource)
		},
	),
	fx.Provide(service.New),
)
