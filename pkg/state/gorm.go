package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/internal/telemetry"
	"github.com/marmos91/dsomm/pkg/model"
)

const memoryPath = ":memory:"

// progressRow is one reached progress state.
type progressRow struct {
	ID           uint      `gorm:"primaryKey"`
	ActivityUUID string    `gorm:"size:64;not null;uniqueIndex:idx_progress_record"`
	Team         string    `gorm:"size:255;not null;uniqueIndex:idx_progress_record"`
	Title        string    `gorm:"size:255;not null;uniqueIndex:idx_progress_record"`
	AchievedOn   time.Time `gorm:"not null"`
}

func (progressRow) TableName() string { return "progress_records" }

type settingRow struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (settingRow) TableName() string { return "settings" }

func allModels() []any {
	return []any{&progressRow{}, &settingRow{}}
}

// GORMStore implements Store on SQLite or PostgreSQL.
type GORMStore struct {
	db     *gorm.DB
	config *Config
}

// NewGORM opens the database and migrates the schema.
func NewGORM(config *Config) (*GORMStore, error) {
	var dialector gorm.Dialector
	switch config.Type {
	case DatabaseTypeSQLite:
		dsn := config.SQLite.Path
		if dsn != memoryPath {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
			// WAL for concurrent readers, wait up to 5s on a locked database
			dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		}
		dialector = sqlite.Open(dsn)

	case DatabaseTypePostgres:
		dialector = postgres.Open(config.Postgres.DSN())

	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	switch {
	case config.Type == DatabaseTypePostgres:
		sqlDB.SetMaxOpenConns(config.Postgres.MaxOpenConns)
		sqlDB.SetMaxIdleConns(config.Postgres.MaxIdleConns)
	case config.SQLite.Path == memoryPath:
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("failed to run database migration: %w", err)
	}

	logger.Debug("State store opened", logger.KeyStore, string(config.Type))
	return &GORMStore{db: db, config: config}, nil
}

// DB returns the underlying GORM connection.
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}

func (s *GORMStore) span(ctx context.Context, name string) (context.Context, trace.Span) {
	return telemetry.StartStoreSpan(ctx, name, string(s.config.Type))
}

func toRows(records []model.ProgressRecord) []progressRow {
	rows := make([]progressRow, len(records))
	for i, r := range records {
		rows[i] = progressRow{
			ActivityUUID: r.ActivityUUID,
			Team:         r.Team,
			Title:        r.Title,
			AchievedOn:   model.DateOnly(r.Date),
		}
	}
	return rows
}

// ============================================
// PROGRESS OPERATIONS
// ============================================

func (s *GORMStore) LoadProgress(ctx context.Context) ([]model.ProgressRecord, error) {
	ctx, span := s.span(ctx, telemetry.SpanStoreLoad)
	defer span.End()

	var rows []progressRow
	if err := s.db.WithContext(ctx).Order("activity_uuid, team, achieved_on, id").Find(&rows).Error; err != nil {
		telemetry.RecordError(ctx, err)
		return nil, fmt.Errorf("load progress: %w", err)
	}
	out := make([]model.ProgressRecord, len(rows))
	for i, r := range rows {
		out[i] = model.ProgressRecord{
			ActivityUUID: r.ActivityUUID,
			Team:         r.Team,
			Title:        r.Title,
			Date:         model.DateOnly(r.AchievedOn),
		}
	}
	return out, nil
}

func (s *GORMStore) SaveProgress(ctx context.Context, records []model.ProgressRecord) error {
	ctx, span := s.span(ctx, telemetry.SpanStoreSave)
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&progressRow{}).Error; err != nil {
			return err
		}
		return insertRows(tx, toRows(records))
	})
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *GORMStore) ReplaceTeamProgress(ctx context.Context, activityUUID, team string, records []model.ProgressRecord) error {
	ctx, span := s.span(ctx, telemetry.SpanStoreSave)
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_uuid = ? AND team = ?", activityUUID, team).Delete(&progressRow{}).Error; err != nil {
			return err
		}
		return insertRows(tx, toRows(records))
	})
	if err != nil {
		telemetry.RecordError(ctx, err)
		return fmt.Errorf("save progress of %s/%s: %w", activityUUID, team, err)
	}
	return nil
}

func insertRows(tx *gorm.DB, rows []progressRow) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 200).Error
}

func (s *GORMStore) DeleteProgress(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&progressRow{}).Error
}

// ============================================
// SETTINGS OPERATIONS
// ============================================

func (s *GORMStore) GetSetting(ctx context.Context, key string) (string, error) {
	var setting settingRow
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSettingNotFound
		}
		return "", err
	}
	return setting.Value, nil
}

func (s *GORMStore) SetSetting(ctx context.Context, key, value string) error {
	setting := settingRow{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Save(&setting).Error
}

func (s *GORMStore) DeleteSetting(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&settingRow{}).Error
}

func (s *GORMStore) ListSettings(ctx context.Context) ([]Setting, error) {
	var rows []settingRow
	if err := s.db.WithContext(ctx).Order("key").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Setting, len(rows))
	for i, r := range rows {
		out[i] = Setting{Key: r.Key, Value: r.Value, UpdatedAt: r.UpdatedAt}
	}
	return out, nil
}

// ============================================
// HEALTH & LIFECYCLE
// ============================================

func (s *GORMStore) Healthcheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}

var _ Store = (*GORMStore)(nil)
