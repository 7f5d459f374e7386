package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gitlumen/gitlumen/pkg/core"
	"github.com/gitlumen/gitlumen/pkg/plugin"
	"github.com/gitlumen/gitlumen/pkg/storage"
)

// fakePlugin delivers merge request events according to its configured
// mode: "ok", "fail", or "panic".
type fakePlugin struct {
	id   string
	mode string
}

func (p *fakePlugin) ID() string                              { return p.id }
func (p *fakePlugin) Name() string                            { return p.id }
func (p *fakePlugin) Type() string                            { return "fake" }
func (p *fakePlugin) ValidateConfig(map[string]any) bool      { return true }
func (p *fakePlugin) TestConnection(ctx context.Context) bool { return true }

func (p *fakePlugin) OnMergeRequestEvent(ctx context.Context, event core.Event) plugin.Result {
	switch p.mode {
	case "fail":
		return plugin.Failed(errors.New("delivery refused"))
	case "panic":
		panic("handler exploded")
	default:
		return plugin.OK("msg_" + p.id)
	}
}

// mutePlugin has no capability interfaces at all.
type mutePlugin struct{ id string }

func (p *mutePlugin) ID() string                              { return p.id }
func (p *mutePlugin) Name() string                            { return p.id }
func (p *mutePlugin) Type() string                            { return "mute" }
func (p *mutePlugin) ValidateConfig(map[string]any) bool      { return true }
func (p *mutePlugin) TestConnection(ctx context.Context) bool { return true }

func newTestRegistry(t *testing.T) *plugin.Registry {
	t.Helper()
	registry := plugin.NewRegistry()
	err := registry.Register(plugin.Factory{
		Meta: plugin.Metadata{Type: "fake", Name: "Fake"},
		New: func(cfg plugin.RuntimeConfig) (plugin.Plugin, error) {
			mode, _ := cfg.Config["mode"].(string)
			return &fakePlugin{id: cfg.ID, mode: mode}, nil
		},
	})
	if err != nil {
		t.Fatalf("register fake: %v", err)
	}
	err = registry.Register(plugin.Factory{
		Meta: plugin.Metadata{Type: "mute", Name: "Mute"},
		New: func(cfg plugin.RuntimeConfig) (plugin.Plugin, error) {
			return &mutePlugin{id: cfg.ID}, nil
		},
	})
	if err != nil {
		t.Fatalf("register mute: %v", err)
	}
	return registry
}

type stubPluginStore struct {
	enabled []storage.EnabledPlugin
	err     error
}

func (s *stubPluginStore) EnabledForProject(ctx context.Context, projectID string) ([]storage.EnabledPlugin, error) {
	return s.enabled, s.err
}

type recordingLogStore struct {
	mu      sync.Mutex
	records []storage.EventLogRecord
}

func (s *recordingLogStore) Record(ctx context.Context, record storage.EventLogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func enabledFake(id, mode, filter string) storage.EnabledPlugin {
	return storage.EnabledPlugin{
		Config: storage.PluginConfigRecord{
			ID:       id,
			Name:     id,
			Type:     "fake",
			IsActive: true,
			Config:   map[string]any{"mode": mode},
		},
		Link: storage.ProjectPluginLinkRecord{
			ProjectID:      "proj-1",
			PluginConfigID: id,
			Enabled:        true,
			Filter:         filter,
		},
	}
}

func TestDispatchIsolatesFailures(t *testing.T) {
	store := &stubPluginStore{enabled: []storage.EnabledPlugin{
		enabledFake("p1", "ok", ""),
		enabledFake("p2", "fail", ""),
		enabledFake("p3", "ok", ""),
	}}
	proc := &Processor{Plugins: store, Registry: newTestRegistry(t)}

	summary, err := proc.Dispatch(context.Background(), "req-1", "proj-1", mergeRequestEvent())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(summary.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(summary.Outcomes))
	}
	if summary.Succeeded() != 2 || summary.Failed() != 1 {
		t.Fatalf("unexpected counts: ok=%d failed=%d", summary.Succeeded(), summary.Failed())
	}
	if summary.Outcomes[0].PluginID != "p1" || !summary.Outcomes[0].Result.Success {
		t.Fatalf("expected p1 to succeed: %+v", summary.Outcomes[0])
	}
	if summary.Outcomes[1].Result.Success || summary.Outcomes[1].Result.Error == "" {
		t.Fatalf("expected p2 failure with message: %+v", summary.Outcomes[1])
	}
	if !summary.Outcomes[2].Result.Success || summary.Outcomes[2].Result.MessageID != "msg_p3" {
		t.Fatalf("expected p3 to succeed despite sibling failure: %+v", summary.Outcomes[2])
	}
}

func TestDispatchRecoversPanics(t *testing.T) {
	store := &stubPluginStore{enabled: []storage.EnabledPlugin{
		enabledFake("p1", "panic", ""),
		enabledFake("p2", "ok", ""),
	}}
	proc := &Processor{Plugins: store, Registry: newTestRegistry(t)}

	summary, err := proc.Dispatch(context.Background(), "req-1", "proj-1", mergeRequestEvent())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if summary.Outcomes[0].Result.Success {
		t.Fatalf("expected panicking plugin to fail")
	}
	if summary.Outcomes[0].Result.Error == "" {
		t.Fatalf("expected panic to be captured as an error message")
	}
	if !summary.Outcomes[1].Result.Success {
		t.Fatalf("expected sibling to survive the panic")
	}
}

func TestDispatchEmptyPluginSet(t *testing.T) {
	proc := &Processor{Plugins: &stubPluginStore{}, Registry: newTestRegistry(t)}
	summary, err := proc.Dispatch(context.Background(), "req-1", "proj-1", mergeRequestEvent())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(summary.Outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(summary.Outcomes))
	}
}

func TestDispatchStoreError(t *testing.T) {
	proc := &Processor{
		Plugins:  &stubPluginStore{err: errors.New("db down")},
		Registry: newTestRegistry(t),
	}
	if _, err := proc.Dispatch(context.Background(), "req-1", "proj-1", mergeRequestEvent()); err == nil {
		t.Fatalf("expected store error to surface")
	}
}

func TestDispatchUnknownPluginType(t *testing.T) {
	entry := enabledFake("p1", "ok", "")
	entry.Config.Type = "nonexistent"
	proc := &Processor{Plugins: &stubPluginStore{enabled: []storage.EnabledPlugin{entry}}, Registry: newTestRegistry(t)}

	_, err := proc.Dispatch(context.Background(), "req-1", "proj-1", mergeRequestEvent())
	if !errors.Is(err, plugin.ErrUnknownPluginType) {
		t.Fatalf("expected unknown plugin type error, got %v", err)
	}
}

func TestDispatchSkipsMissingCapability(t *testing.T) {
	entry := storage.EnabledPlugin{
		Config: storage.PluginConfigRecord{ID: "m1", Type: "mute", IsActive: true},
		Link:   storage.ProjectPluginLinkRecord{ProjectID: "proj-1", Enabled: true},
	}
	proc := &Processor{Plugins: &stubPluginStore{enabled: []storage.EnabledPlugin{entry}}, Registry: newTestRegistry(t)}

	summary, err := proc.Dispatch(context.Background(), "req-1", "proj-1", mergeRequestEvent())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(summary.Outcomes) != 0 {
		t.Fatalf("expected silent skip, got %+v", summary.Outcomes)
	}
}

func TestDispatchFilterGating(t *testing.T) {
	store := &stubPluginStore{enabled: []storage.EnabledPlugin{
		enabledFake("match", "ok", "kind == 'merge_request'"),
		enabledFake("nomatch", "ok", "kind == 'pipeline'"),
		enabledFake("badfilter", "ok", "kind =="),
	}}
	proc := &Processor{Plugins: store, Registry: newTestRegistry(t)}

	summary, err := proc.Dispatch(context.Background(), "req-1", "proj-1", mergeRequestEvent())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(summary.Outcomes) != 1 {
		t.Fatalf("expected only the matching plugin to run, got %+v", summary.Outcomes)
	}
	if summary.Outcomes[0].PluginID != "match" {
		t.Fatalf("unexpected plugin ran: %+v", summary.Outcomes[0])
	}
}

func TestDispatchSkipsInactiveResolvedConfig(t *testing.T) {
	entry := enabledFake("p1", "ok", "")
	entry.Config.IsActive = false
	proc := &Processor{Plugins: &stubPluginStore{enabled: []storage.EnabledPlugin{entry}}, Registry: newTestRegistry(t)}

	summary, err := proc.Dispatch(context.Background(), "req-1", "proj-1", mergeRequestEvent())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(summary.Outcomes) != 0 {
		t.Fatalf("expected inactive config to be skipped, got %+v", summary.Outcomes)
	}
}

func TestDispatchRecordsEventLogs(t *testing.T) {
	logs := &recordingLogStore{}
	store := &stubPluginStore{enabled: []storage.EnabledPlugin{
		enabledFake("p1", "ok", ""),
		enabledFake("p2", "fail", ""),
	}}
	proc := &Processor{Plugins: store, Registry: newTestRegistry(t), Logs: logs}

	event := mergeRequestEvent()
	if _, err := proc.Dispatch(context.Background(), "req-7", "proj-1", event); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(logs.records) != 2 {
		t.Fatalf("expected 2 log records, got %d", len(logs.records))
	}
	for _, rec := range logs.records {
		if rec.RequestID != "req-7" || rec.ProjectID != "proj-1" || rec.EventID != event.ID {
			t.Fatalf("unexpected record: %+v", rec)
		}
		if rec.ID == "" {
			t.Fatalf("expected generated record id")
		}
	}
	byPlugin := map[string]bool{}
	for _, rec := range logs.records {
		byPlugin[rec.PluginID] = rec.Success
	}
	if !byPlugin["p1"] || byPlugin["p2"] {
		t.Fatalf("unexpected success flags: %v", byPlugin)
	}
}
