package providerconfigs

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
	"gorm.io/gorm/clause"
)

// Config mirrors the storage configuration for the provider tables.
type Config struct {
	Driver      string
	DSN         string
	Dialect     string
	AutoMigrate bool
}

// Store implements storage.ProviderStore on top of GORM. It owns the
// provider connections table and the project ownership table that maps a
// provider-native project id to its connection.
type Store struct {
	db *gorm.DB
}

type providerRow struct {
	ID            string    `gorm:"column:id;size:64;primaryKey"`
	Name          string    `gorm:"column:name;size:255;not null"`
	Type          string    `gorm:"column:type;size:64;not null"`
	BaseURL       string    `gorm:"column:base_url;size:512"`
	AccessToken   string    `gorm:"column:access_token;size:512"`
	WebhookSecret string    `gorm:"column:webhook_secret;size:512"`
	Active        bool      `gorm:"column:active"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (providerRow) TableName() string { return "gitlumen_provider_configs" }

type projectRow struct {
	ProjectID        string    `gorm:"column:project_id;size:128;primaryKey"`
	Name             string    `gorm:"column:name;size:255"`
	ProviderConfigID string    `gorm:"column:provider_config_id;size:64;not null;index"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (projectRow) TableName() string { return "gitlumen_projects" }

// Open creates a GORM-backed provider config store.
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

// SaveProviderConfig inserts or updates a provider connection.
func (s *Store) SaveProviderConfig(ctx context.Context, record storage.ProviderConfigRecord) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if record.ID == "" || record.Type == "" {
		return errors.New("provider config id and type are required")
	}
	data := providerRow{
		ID:            record.ID,
		Name:          record.Name,
		Type:          record.Type,
		BaseURL:       record.BaseURL,
		AccessToken:   record.AccessToken,
		WebhookSecret: record.WebhookSecret,
		Active:        record.Active,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "type", "base_url", "access_token", "webhook_secret", "active", "updated_at"}),
		}).
		Create(&data).Error
}

// SaveProject links a provider-native project id to a provider connection.
func (s *Store) SaveProject(ctx context.Context, projectID, name, providerConfigID string) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if projectID == "" || providerConfigID == "" {
		return errors.New("project id and provider config id are required")
	}
	data := projectRow{ProjectID: projectID, Name: name, ProviderConfigID: providerConfigID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "provider_config_id", "updated_at"}),
		}).
		Create(&data).Error
}

// ForProject implements storage.ProviderStore.
func (s *Store) ForProject(ctx context.Context, projectID string) (storage.ProviderConfigRecord, error) {
	if s == nil || s.db == nil {
		return storage.ProviderConfigRecord{}, errors.New("store is not initialized")
	}
	var project projectRow
	err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Take(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ProviderConfigRecord{}, fmt.Errorf("project %s: %w", projectID, storage.ErrNotFound)
	}
	if err != nil {
		return storage.ProviderConfigRecord{}, err
	}

	var data providerRow
	err = s.db.WithContext(ctx).
		Where("id = ? AND active = ?", project.ProviderConfigID, true).
		Take(&data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ProviderConfigRecord{}, fmt.Errorf("provider for project %s: %w", projectID, storage.ErrNotFound)
	}
	if err != nil {
		return storage.ProviderConfigRecord{}, err
	}
	return storage.ProviderConfigRecord{
		ID:            data.ID,
		Name:          data.Name,
		Type:          data.Type,
		BaseURL:       data.BaseURL,
		AccessToken:   data.AccessToken,
		WebhookSecret: data.WebhookSecret,
		Active:        data.Active,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}, nil
}

func (s *Store) migrate() error {
	return s.db.AutoMigrate(&providerRow{}, &projectRow{})
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
