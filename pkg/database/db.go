package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// DB wraps the database connection and provides additional functionality
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// Config holds database configuration
type Config struct {
	URL               string
	MaxOpenConns      int
	MaxIdleConns      int
	ConnMaxLifetime   time.Duration
	MigrationsPath    string
	ConnectionTimeout time.Duration
}

// DefaultConfig builds the database configuration from the environment.
func DefaultConfig(url string) Config {
	return Config{
		URL:               url,
		MaxOpenConns:      getEnvInt("DATABASE_MAX_OPEN_CONNS", 25),
		MaxIdleConns:      getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:   getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		MigrationsPath:    getEnvString("DATABASE_MIGRATIONS_PATH", "file://pkg/database/migrations"),
		ConnectionTimeout: 30 * time.Second,
	}
}

// NewDB creates a new database connection
func NewDB(cfg Config, logger *zap.Logger) (*DB, error) {
	logger.Info("Connecting to database")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectionTimeout)
	defer cancel()

	sqlDB, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w, and failed to close connection: %w", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db := sqlx.NewDb(sqlDB, "postgres")

	logger.Info("Successfully connected to database")

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info("Closing database connection")
	return db.DB.Close()
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.GetContext(ctx, &result, "SELECT 1"); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}

	return nil
}

// RunMigrations runs database migrations
func (db *DB) RunMigrations(migrationsPath string) error {
	db.logger.Info("Running database migrations")

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		db.logger.Warn("Could not get migration version", zap.Error(err))
	} else {
		db.logger.Info("Migration completed",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty))
	}

	return nil
}

// WithTransaction executes a function within a database transaction. The
// error return is named so the deferred commit can surface its failure.
func (db *DB) WithTransaction(ctx context.Context, fn func(*sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Error("Failed to rollback transaction during panic", zap.Error(rbErr))
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
			}
		} else {
			if commitErr := tx.Commit(); commitErr != nil {
				db.logger.Error("Failed to commit transaction", zap.Error(commitErr))
				err = commitErr
			}
		}
	}()

	err = fn(tx)
	return err
}

// GetStats returns database connection statistics
func (db *DB) GetStats() sql.DBStats {
	return db.DB.Stats()
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
