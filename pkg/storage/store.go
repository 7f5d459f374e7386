package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ProviderConfigRecord stores one configured upstream connection.
type ProviderConfigRecord struct {
	ID            string
	Name          string
	Type          string
	BaseURL       string
	AccessToken   string
	WebhookSecret string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PluginConfigRecord stores one organization-level notification sink
// configuration.
type PluginConfigRecord struct {
	ID        string
	Name      string
	Type      string
	IsActive  bool
	Config    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectPluginLinkRecord links a plugin config to one project, carrying
// project-level overrides and an optional dispatch filter expression.
type ProjectPluginLinkRecord struct {
	ProjectID      string
	PluginConfigID string
	Enabled        bool
	Config         map[string]any
	Filter         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EnabledPlugin pairs a plugin config with the project link that enables
// it.
type EnabledPlugin struct {
	Config PluginConfigRecord
	Link   ProjectPluginLinkRecord
}

// EventLogRecord stores the outcome of one plugin dispatch.
type EventLogRecord struct {
	ID           string
	RequestID    string
	ProjectID    string
	EventID      string
	EventKind    string
	PluginID     string
	PluginType   string
	Success      bool
	MessageID    string
	ErrorMessage string
	CreatedAt    time.Time
}

// ProviderStore resolves the provider connection owning a project.
type ProviderStore interface {
	// ForProject returns the active provider config for a project, or
	// ErrNotFound when the project has none.
	ForProject(ctx context.Context, projectID string) (ProviderConfigRecord, error)
}

// PluginStore resolves the notification sinks enabled for a project.
type PluginStore interface {
	// EnabledForProject returns config/link pairs pre-filtered to
	// link.Enabled AND config.IsActive.
	EnabledForProject(ctx context.Context, projectID string) ([]EnabledPlugin, error)
}

// EventLogStore records dispatch outcomes. Writes are best-effort; a
// failed write never fails the dispatch.
type EventLogStore interface {
	Record(ctx context.Context, record EventLogRecord) error
}
