// Package relational stores entities in a SQL database through gorm. Postgres
// is the production target; sqlite serves local runs and tests.
package relational

import (
	"context"
	"fmt"
	"time"

	"fitstudio/server/internal/domain"
	"fitstudio/server/internal/repository"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database named by driver and dsn.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true, // surface unique violations as gorm.ErrDuplicatedKey
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}
	return db, nil
}

// AutoMigrate creates or updates every entity table.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Workout{},
		&domain.StudentWorkout{},
		&domain.Exercise{},
		&domain.WorkoutExercise{},
		&domain.Session{},
		&domain.Payment{},
		&domain.Progress{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// NewStore builds a store over db. Tables must already be migrated.
func NewStore(db *gorm.DB, now func() time.Time) *repository.Store {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &repository.Store{
		Users:            newTable[domain.User](db, now),
		Workouts:         newTable[domain.Workout](db, now),
		StudentWorkouts:  newTable[domain.StudentWorkout](db, now),
		Exercises:        newTable[domain.Exercise](db, now),
		WorkoutExercises: newTable[domain.WorkoutExercise](db, now),
		Sessions:         newTable[domain.Session](db, now),
		Payments:         newTable[domain.Payment](db, now),
		Progress:         newTable[domain.Progress](db, now),
		Closer: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
