package profile

import (
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	"github.com/nutrilog/nutrilog/internal/profile/repository"
	"github.com/nutrilog/nutrilog/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.Provide),
	fx.Provide(
		service.New,
		func(s *service.Service) profiledomain.Service { return s },
		func(s *service.Service) dailylogdomain.MetabolismProvider { return s },
	),
)
