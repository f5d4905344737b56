package catalog

import (
	"github.com/nutrilog/nutrilog/internal/catalog/repository"
	"github.com/nutrilog/nutrilog/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
