package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	bodydomain "github.com/nutrilog/nutrilog/internal/bodyrecord/domain"
	catalogdomain "github.com/nutrilog/nutrilog/internal/catalog/domain"
	"github.com/nutrilog/nutrilog/internal/config"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	exercisedomain "github.com/nutrilog/nutrilog/internal/exercise/domain"
	intakedomain "github.com/nutrilog/nutrilog/internal/foodintake/domain"
	goaldomain "github.com/nutrilog/nutrilog/internal/goal/domain"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	sleepdomain "github.com/nutrilog/nutrilog/internal/sleep/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	profileSvc  profiledomain.Service
	catalogSvc  catalogdomain.Service
	bodySvc     bodydomain.Service
	intakeSvc   intakedomain.Service
	exerciseSvc exercisedomain.Service
	sleepSvc    sleepdomain.Service
	dailyLogSvc dailylogdomain.Service
	goalSvc     goaldomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	ProfileSvc  profiledomain.Service
	CatalogSvc  catalogdomain.Service
	BodySvc     bodydomain.Service
	IntakeSvc   intakedomain.Service
	ExerciseSvc exercisedomain.Service
	SleepSvc    sleepdomain.Service
	DailyLogSvc dailylogdomain.Service
	GoalSvc     goaldomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		profileSvc:  p.ProfileSvc,
		catalogSvc:  p.CatalogSvc,
		bodySvc:     p.BodySvc,
		intakeSvc:   p.IntakeSvc,
		exerciseSvc: p.ExerciseSvc,
		sleepSvc:    p.SleepSvc,
		dailyLogSvc: p.DailyLogSvc,
		goalSvc:     p.GoalSvc,
	}

	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.PUT("/profile", s.UpsertProfile)
	api.GET("/profile", s.GetProfile)

	api.POST("/foods", s.CreateFood)
	api.GET("/foods", s.SearchFoods)
	api.GET("/foods/:id", s.GetFood)

	records := api.Group("/records")
	{
		records.POST("/body", s.SaveBodyRecord)
		records.DELETE("/body/:id", s.DeleteBodyRecord)
		records.POST("/food", s.SaveFoodIntake)
		records.DELETE("/food/:id", s.DeleteFoodIntake)
		records.POST("/exercise", s.SaveExerciseRecord)
		records.DELETE("/exercise/:id", s.DeleteExerciseRecord)
		records.POST("/sleep", s.SaveSleepRecord)
		records.DELETE("/sleep/:id", s.DeleteSleepRecord)
	}

	api.GET("/daily-logs", s.ListDailyLogs)
	api.GET("/daily-logs/:date", s.GetDailyLog)
	api.POST("/daily-logs/:date/rebuild", s.RebuildDailyLog)

	api.GET("/goal", s.GetGoal)
	api.PUT("/goal", s.UpsertGoal)
	api.GET("/goal/projection", s.GetGoalProjection)
}

func run(lc fx.Lifecycle, log *zap.Logger, cfg config.Config, s *Server) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
