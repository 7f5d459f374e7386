package pluginconfigs

import (
	"context"
	"encoding/json"
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

// Config mirrors the storage configuration for the plugin config tables.
type Config struct {
	Driver      string
	DSN         string
	Dialect     string
	AutoMigrate bool
}

// Store implements storage.PluginStore on top of GORM. It owns two tables:
// organization-level plugin configs and per-project links.
type Store struct {
	db *gorm.DB
}

type configRow struct {
	ID         string    `gorm:"column:id;size:64;primaryKey"`
	Name       string    `gorm:"column:name;size:255;not null"`
	Type       string    `gorm:"column:type;size:64;not null"`
	IsActive   bool      `gorm:"column:is_active"`
	ConfigJSON string    `gorm:"column:config_json;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (configRow) TableName() string { return "gitlumen_plugin_configs" }

type linkRow struct {
	ProjectID      string    `gorm:"column:project_id;size:128;not null;uniqueIndex:idx_project_plugin,priority:1"`
	PluginConfigID string    `gorm:"column:plugin_config_id;size:64;not null;uniqueIndex:idx_project_plugin,priority:2"`
	Enabled        bool      `gorm:"column:enabled"`
	ConfigJSON     string    `gorm:"column:config_json;type:text"`
	Filter         string    `gorm:"column:filter;size:1024"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (linkRow) TableName() string { return "gitlumen_project_plugin_links" }

// Open creates a GORM-backed plugin config store.
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

// SavePluginConfig inserts or updates an organization-level plugin config.
func (s *Store) SavePluginConfig(ctx context.Context, record storage.PluginConfigRecord) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if record.ID == "" || record.Type == "" {
		return errors.New("plugin config id and type are required")
	}
	data, err := toConfigRow(record)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "type", "is_active", "config_json", "updated_at"}),
		}).
		Create(&data).Error
}

// SaveProjectLink inserts or updates a project-plugin link.
func (s *Store) SaveProjectLink(ctx context.Context, record storage.ProjectPluginLinkRecord) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if record.ProjectID == "" || record.PluginConfigID == "" {
		return errors.New("project id and plugin config id are required")
	}
	data, err := toLinkRow(record)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "plugin_config_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "config_json", "filter", "updated_at"}),
		}).
		Create(&data).Error
}

// EnabledForProject implements storage.PluginStore: only links that are
// enabled on plugins that are active are returned.
func (s *Store) EnabledForProject(ctx context.Context, projectID string) ([]storage.EnabledPlugin, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	var links []linkRow
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND enabled = ?", projectID, true).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.PluginConfigID)
	}
	var configs []configRow
	err = s.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[string]configRow, len(configs))
	for _, cfg := range configs {
		byID[cfg.ID] = cfg
	}

	out := make([]storage.EnabledPlugin, 0, len(links))
	for _, link := range links {
		cfg, ok := byID[link.PluginConfigID]
		if !ok {
			continue
		}
		configRecord, err := fromConfigRow(cfg)
		if err != nil {
			return nil, err
		}
		linkRecord, err := fromLinkRow(link)
		if err != nil {
			return nil, err
		}
		out = append(out, storage.EnabledPlugin{Config: configRecord, Link: linkRecord})
	}
	return out, nil
}

func (s *Store) migrate() error {
	return s.db.AutoMigrate(&configRow{}, &linkRow{})
}

func toConfigRow(record storage.PluginConfigRecord) (configRow, error) {
	configJSON, err := marshalConfig(record.Config)
	if err != nil {
		return configRow{}, err
	}
	return configRow{
		ID:         record.ID,
		Name:       record.Name,
		Type:       record.Type,
		IsActive:   record.IsActive,
		ConfigJSON: configJSON,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}, nil
}

func fromConfigRow(data configRow) (storage.PluginConfigRecord, error) {
	config, err := unmarshalConfig(data.ConfigJSON)
	if err != nil {
		return storage.PluginConfigRecord{}, err
	}
	return storage.PluginConfigRecord{
		ID:        data.ID,
		Name:      data.Name,
		Type:      data.Type,
		IsActive:  data.IsActive,
		Config:    config,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}, nil
}

func toLinkRow(record storage.ProjectPluginLinkRecord) (linkRow, error) {
	configJSON, err := marshalConfig(record.Config)
	if err != nil {
		return linkRow{}, err
	}
	return linkRow{
		ProjectID:      record.ProjectID,
		PluginConfigID: record.PluginConfigID,
		Enabled:        record.Enabled,
		ConfigJSON:     configJSON,
		Filter:         record.Filter,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}, nil
}

func fromLinkRow(data linkRow) (storage.ProjectPluginLinkRecord, error) {
	config, err := unmarshalConfig(data.ConfigJSON)
	if err != nil {
		return storage.ProjectPluginLinkRecord{}, err
	}
	return storage.ProjectPluginLinkRecord{
		ProjectID:      data.ProjectID,
		PluginConfigID: data.PluginConfigID,
		Enabled:        data.Enabled,
		Config:         config,
		Filter:         data.Filter,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}, nil
}

func marshalConfig(config map[string]any) (string, error) {
	if len(config) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(raw), nil
}

func unmarshalConfig(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var config map[string]any
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return config, nil
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
