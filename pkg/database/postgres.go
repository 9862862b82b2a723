package database

import (
	"fmt"
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var DefaultPool = PoolConfig{MaxOpenConns: 25, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute}

func NewPostgresDB(dsn string, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema. Workers go first since desks and gates
// reference them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Worker{},
		&models.Flight{},
		&models.FlightTimes{},
		&models.CheckInDesk{},
		&models.Gate{},
		&models.DeskAssignment{},
		&models.GateAssignment{},
		&models.Passenger{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Partial indexes: the coordinator counts active assignments per flight
	// on every toggle.
	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_desk_assignments_active
		 ON desk_assignments (flight_id) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_gate_assignments_active
		 ON gate_assignments (flight_id) WHERE is_active`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
