package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/config"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/doctor"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/patient"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/prediction"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/metrics"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

const instrumentStartKey = "metrics:start"

// Instrument registers gorm callbacks that record query latency by operation
// and table, and track the connection pool size.
func Instrument(db *gorm.DB, m *metrics.Collector) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(instrumentStartKey, time.Now())
	}

	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(instrumentStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}

			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			m.DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())

			if sqlDB, err := tx.DB(); err == nil {
				m.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}
	}

	type registration struct {
		operation string
		before    func(name string, fn func(*gorm.DB)) error
		after     func(name string, fn func(*gorm.DB)) error
	}

	registrations := []registration{
		{"create", db.Callback().Create().Before("gorm:create").Register, db.Callback().Create().After("gorm:create").Register},
		{"query", db.Callback().Query().Before("gorm:query").Register, db.Callback().Query().After("gorm:query").Register},
		{"update", db.Callback().Update().Before("gorm:update").Register, db.Callback().Update().After("gorm:update").Register},
		{"delete", db.Callback().Delete().Before("gorm:delete").Register, db.Callback().Delete().After("gorm:delete").Register},
		{"row", db.Callback().Row().Before("gorm:row").Register, db.Callback().Row().After("gorm:row").Register},
		{"raw", db.Callback().Raw().Before("gorm:raw").Register, db.Callback().Raw().After("gorm:raw").Register},
	}

	for _, r := range registrations {
		if err := r.before("metrics:before_"+r.operation, before); err != nil {
			return fmt.Errorf("registering before-%s callback: %w", r.operation, err)
		}
		if err := r.after("metrics:after_"+r.operation, after(r.operation)); err != nil {
			return fmt.Errorf("registering after-%s callback: %w", r.operation, err)
		}
	}

	return nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "auth", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&doctor.Doctor{},
		&patient.Patient{},
		&prediction.Prediction{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Patient list and detail screens read one doctor's records newest first.
		`CREATE INDEX IF NOT EXISTS idx_patients_doctor_created ON clinical.patients (doctor_id, created_at DESC)`,
		// Prediction history per patient, newest first.
		`CREATE INDEX IF NOT EXISTS idx_predictions_patient_created ON clinical.predictions (patient_id, created_at DESC)`,
		// Dashboard recent-predictions table and daily counters.
		`CREATE INDEX IF NOT EXISTS idx_predictions_doctor_created ON clinical.predictions (doctor_id, created_at DESC)`,
	}

	for _, query := range indexes {
		if err := db.Exec(query).Error; err != nil {
			return err
		}
	}

	// Trigram index for patient search by name or code. Skipped when the
	// pg_trgm extension cannot be installed; search falls back to seq scans.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error; err == nil {
		if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_patients_search_trgm ON clinical.patients USING gin ((name || ' ' || patient_code) gin_trgm_ops)`).Error; err != nil {
			return err
		}
	}

	return nil
}
