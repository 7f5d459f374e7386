package eventlogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gitlumen/gitlumen/pkg/storage"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config mirrors the storage configuration for the event log table.
type Config struct {
	Driver      string
	DSN         string
	Dialect     string
	AutoMigrate bool
}

// Store implements storage.EventLogStore on top of GORM.
type Store struct {
	db *gorm.DB
}

type row struct {
	ID           string    `gorm:"column:id;size:64;primaryKey"`
	RequestID    string    `gorm:"column:request_id;size:128;index"`
	ProjectID    string    `gorm:"column:project_id;size:128;index"`
	EventID      string    `gorm:"column:event_id;size:128"`
	EventKind    string    `gorm:"column:event_kind;size:64"`
	PluginID     string    `gorm:"column:plugin_id;size:64"`
	PluginType   string    `gorm:"column:plugin_type;size:64"`
	Success      bool      `gorm:"column:success"`
	MessageID    string    `gorm:"column:message_id;size:128"`
	ErrorMessage string    `gorm:"column:error_message;size:1024"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (row) TableName() string { return "gitlumen_event_logs" }

// Open creates a GORM-backed event log store.
func Open(cfg Config) (*Store, error) {
	if cfg.Driver == "" && cfg.Dialect == "" {
		return nil, errors.New("storage driver or dialect is required")
	}
	if cfg.DSN == "" {
		return nil, errors.New("storage dsn is required")
	}
	driver := normalizeDriver(cfg.Driver)
	if driver == "" {
		driver = normalizeDriver(cfg.Dialect)
	}
	if driver == "" {
		return nil, errors.New("unsupported storage driver")
	}

	gormDB, err := openGorm(driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	store := &Store{db: gormDB}
	if cfg.AutoMigrate {
		if err := store.migrate(); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Close closes the underlying DB connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record implements storage.EventLogStore.
func (s *Store) Record(ctx context.Context, record storage.EventLogRecord) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if record.ID == "" {
		return errors.New("event log id is required")
	}
	data := row{
		ID:           record.ID,
		RequestID:    record.RequestID,
		ProjectID:    record.ProjectID,
		EventID:      record.EventID,
		EventKind:    record.EventKind,
		PluginID:     record.PluginID,
		PluginType:   record.PluginType,
		Success:      record.Success,
		MessageID:    record.MessageID,
		ErrorMessage: record.ErrorMessage,
		CreatedAt:    record.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&data).Error
}

func (s *Store) migrate() error {
	return s.db.AutoMigrate(&row{})
}

func normalizeDriver(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "postgres", "postgresql", "pgx":
		return "postgres"
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return ""
	}
}

func openGorm(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}
