// Package migration creates the schema on startup so the service is usable
// out of the box for local and self-hosted environments.
package migration

import (
	bodydomain "github.com/nutrilog/nutrilog/internal/bodyrecord/domain"
	catalogdomain "github.com/nutrilog/nutrilog/internal/catalog/domain"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	exercisedomain "github.com/nutrilog/nutrilog/internal/exercise/domain"
	intakedomain "github.com/nutrilog/nutrilog/internal/foodintake/domain"
	goaldomain "github.com/nutrilog/nutrilog/internal/goal/domain"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	sleepdomain "github.com/nutrilog/nutrilog/internal/sleep/domain"
	"gorm.io/gorm"
)

// Models lists every persisted type, shared with test setup.
func Models() []any {
	return []any{
		&profiledomain.Profile{},
		&catalogdomain.Food{},
		&bodydomain.BodyRecord{},
		&bodydomain.MetabolismSnapshot{},
		&intakedomain.FoodIntake{},
		&exercisedomain.ExerciseRecord{},
		&sleepdomain.SleepRecord{},
		&dailylogdomain.DailyLog{},
		&goaldomain.Goal{},
	}
}

func Run(conn *gorm.DB) error {
	return conn.AutoMigrate(Models()...)
}
