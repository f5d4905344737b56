package goal

import (
	"github.com/nutrilog/nutrilog/internal/goal/repository"
	"github.com/nutrilog/nutrilog/internal/goal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("goal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
