package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/gitlumen/gitlumen/pkg/core"
)

func TestStaticProviderStoreForProject(t *testing.T) {
	store := NewStaticProviderStore([]core.ProviderEntry{
		{ID: "gl-inactive", Type: "gitlab", Active: false},
		{ID: "gl-scoped", Type: "gitlab", Active: true, Projects: []string{"proj-1", "proj-2"}},
		{ID: "gl-wildcard", Type: "gitlab", Active: true},
	})

	rec, err := store.ForProject(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("for project: %v", err)
	}
	if rec.ID != "gl-scoped" {
		t.Fatalf("expected scoped entry to win, got %q", rec.ID)
	}

	rec, err = store.ForProject(context.Background(), "proj-other")
	if err != nil {
		t.Fatalf("for project: %v", err)
	}
	if rec.ID != "gl-wildcard" {
		t.Fatalf("expected wildcard entry, got %q", rec.ID)
	}
}

func TestStaticProviderStoreNotFound(t *testing.T) {
	store := NewStaticProviderStore([]core.ProviderEntry{
		{ID: "gl-scoped", Type: "gitlab", Active: true, Projects: []string{"proj-1"}},
	})
	_, err := store.ForProject(context.Background(), "proj-2")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStaticPluginStoreEnabledForProject(t *testing.T) {
	store := NewStaticPluginStore([]core.PluginEntry{
		{
			ID: "teams-eng", Type: "teams", Active: true,
			Config: map[string]any{"webhookUrl": "https://example.com/hook"},
			Projects: []core.PluginLinkEntry{
				{ID: "proj-1", Enabled: true, Config: map[string]any{"botName": "Override"}, Filter: "kind == 'pipeline'"},
				{ID: "proj-2", Enabled: false},
			},
		},
		{
			ID: "console-dbg", Type: "console", Active: false,
			Projects: []core.PluginLinkEntry{{ID: "proj-1", Enabled: true}},
		},
	})

	enabled, err := store.EnabledForProject(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("enabled for project: %v", err)
	}
	if len(enabled) != 1 {
		t.Fatalf("expected only the active plugin's enabled link, got %d", len(enabled))
	}
	got := enabled[0]
	if got.Config.ID != "teams-eng" || !got.Config.IsActive {
		t.Fatalf("unexpected config record: %+v", got.Config)
	}
	if got.Link.ProjectID != "proj-1" || !got.Link.Enabled {
		t.Fatalf("unexpected link record: %+v", got.Link)
	}
	if got.Link.Config["botName"] != "Override" {
		t.Fatalf("expected link override carried through, got %v", got.Link.Config)
	}
	if got.Link.Filter != "kind == 'pipeline'" {
		t.Fatalf("expected filter carried through, got %q", got.Link.Filter)
	}

	// Disabled link on an active plugin yields nothing.
	enabled, err = store.EnabledForProject(context.Background(), "proj-2")
	if err != nil {
		t.Fatalf("enabled for project: %v", err)
	}
	if len(enabled) != 0 {
		t.Fatalf("expected no enabled plugins, got %+v", enabled)
	}
}
