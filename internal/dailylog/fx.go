package dailylog

import (
	"github.com/nutrilog/nutrilog/internal/dailylog/repository"
	"github.com/nutrilog/nutrilog/internal/dailylog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dailylog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
