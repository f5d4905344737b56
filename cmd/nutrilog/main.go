package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/nutrilog/nutrilog/internal/bodyrecord"
	"github.com/nutrilog/nutrilog/internal/cascade"
	"github.com/nutrilog/nutrilog/internal/catalog"
	"github.com/nutrilog/nutrilog/internal/clock"
	"github.com/nutrilog/nutrilog/internal/config"
	"github.com/nutrilog/nutrilog/internal/dailylog"
	"github.com/nutrilog/nutrilog/internal/exercise"
	"github.com/nutrilog/nutrilog/internal/foodintake"
	"github.com/nutrilog/nutrilog/internal/goal"
	"github.com/nutrilog/nutrilog/internal/logger"
	"github.com/nutrilog/nutrilog/internal/migration"
	"github.com/nutrilog/nutrilog/internal/profile"
	"github.com/nutrilog/nutrilog/internal/server"
	"github.com/nutrilog/nutrilog/internal/sleep"
	"github.com/nutrilog/nutrilog/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cascade.Module,
		migration.Module,

		// Functional domains
		profile.Module,
		catalog.Module,
		dailylog.Module,
		bodyrecord.Module,
		foodintake.Module,
		exercise.Module,
		sleep.Module,
		goal.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
