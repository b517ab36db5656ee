package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// PoolFor sizes the pool for the environment; development stays small.
func PoolFor(production bool) PoolConfig {
	if production {
		return PoolConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		}
	}
	return PoolConfig{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 10 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
	}
}

func configurePool(sqlDB *sql.DB, pc PoolConfig) {
	sqlDB.SetMaxOpenConns(pc.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pc.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pc.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pc.ConnMaxIdleTime)
}

func GormConfig(production bool) *gorm.Config {
	lvl := logger.Info
	if production {
		lvl = logger.Warn
	}
	return &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(lvl),
	}
}

const (
	sqliteScheme      = "sqlite://"
	sqliteForeignKeys = "_pragma=foreign_keys(1)"
)

// Dialector picks the driver from the DSN. "sqlite://<path>" selects the
// pure-Go SQLite driver for local runs; everything else is Postgres.
func Dialector(dsn string) gorm.Dialector {
	if path, ok := strings.CutPrefix(dsn, sqliteScheme); ok {
		return sqlite.Open(sqliteDSN(path))
	}
	return postgres.Open(dsn)
}

// sqliteDSN turns on foreign keys for every pooled connection, otherwise
// SQLite ignores ON DELETE CASCADE.
func sqliteDSN(path string) string {
	if strings.Contains(path, "foreign_keys") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + sqliteForeignKeys
	}
	return path + "?" + sqliteForeignKeys
}

// Open connects once; the returned handle is shared by every repository.
func Open(ctx context.Context, dsn string, production bool) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := gorm.Open(Dialector(dsn), GormConfig(production))
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := Configure(ctx, db, PoolFor(production)); err != nil {
		return nil, err
	}
	return db, nil
}

// Configure applies the pool settings and pings the database.
func Configure(ctx context.Context, db *gorm.DB, pc PoolConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB, pc)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
