package dispatch

import (
	"github.com/gitlumen/gitlumen/pkg/plugin"
	"github.com/gitlumen/gitlumen/pkg/storage"
)

// ResolveConfig merges an organization-level plugin config with one
// project link into the effective runtime config. The merge is a pure
// shallow overlay: keys in the project override win, keys absent from it
// keep the organization value. It is recomputed per dispatch and never
// cached across projects.
func ResolveConfig(parent storage.PluginConfigRecord, link storage.ProjectPluginLinkRecord) plugin.RuntimeConfig {
	merged := make(map[string]any, len(parent.Config)+len(link.Config))
	for key, value := range parent.Config {
		merged[key] = value
	}
	for key, value := range link.Config {
		merged[key] = value
	}
	return plugin.RuntimeConfig{
		ID:     parent.ID,
		Name:   parent.Name,
		Type:   parent.Type,
		Active: parent.IsActive && link.Enabled,
		Config: merged,
	}
}
