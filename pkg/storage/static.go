package storage

import (
	"context"
	"fmt"

	"github.com/gitlumen/gitlumen/pkg/core"
)

// StaticProviderStore serves provider configs from the application config
// file. It backs deployments without a database.
type StaticProviderStore struct {
	entries []core.ProviderEntry
}

// NewStaticProviderStore creates a store over static provider entries.
func NewStaticProviderStore(entries []core.ProviderEntry) *StaticProviderStore {
	return &StaticProviderStore{entries: entries}
}

// ForProject returns the first active entry matching the project. An entry
// with no project list matches every project.
func (s *StaticProviderStore) ForProject(ctx context.Context, projectID string) (ProviderConfigRecord, error) {
	for _, entry := range s.entries {
		if !entry.Active {
			continue
		}
		if !matchesProject(entry.Projects, projectID) {
			continue
		}
		return ProviderConfigRecord{
			ID:            entry.ID,
			Name:          entry.Name,
			Type:          entry.Type,
			BaseURL:       entry.BaseURL,
			AccessToken:   entry.AccessToken,
			WebhookSecret: entry.WebhookSecret,
			Active:        entry.Active,
		}, nil
	}
	return ProviderConfigRecord{}, fmt.Errorf("provider for project %s: %w", projectID, ErrNotFound)
}

// StaticPluginStore serves plugin configs and project links from the
// application config file.
type StaticPluginStore struct {
	entries []core.PluginEntry
}

// NewStaticPluginStore creates a store over static plugin entries.
func NewStaticPluginStore(entries []core.PluginEntry) *StaticPluginStore {
	return &StaticPluginStore{entries: entries}
}

// EnabledForProject returns the pre-filtered config/link pairs: only links
// that are enabled on plugins that are active.
func (s *StaticPluginStore) EnabledForProject(ctx context.Context, projectID string) ([]EnabledPlugin, error) {
	var out []EnabledPlugin
	for _, entry := range s.entries {
		if !entry.Active {
			continue
		}
		for _, link := range entry.Projects {
			if link.ID != projectID || !link.Enabled {
				continue
			}
			out = append(out, EnabledPlugin{
				Config: PluginConfigRecord{
					ID:       entry.ID,
					Name:     entry.Name,
					Type:     entry.Type,
					IsActive: entry.Active,
					Config:   entry.Config,
				},
				Link: ProjectPluginLinkRecord{
					ProjectID:      link.ID,
					PluginConfigID: entry.ID,
					Enabled:        link.Enabled,
					Config:         link.Config,
					Filter:         link.Filter,
				},
			})
		}
	}
	return out, nil
}

func matchesProject(projects []string, projectID string) bool {
	if len(projects) == 0 {
		return true
	}
	for _, id := range projects {
		if id == projectID {
			return true
		}
	}
	return false
}
