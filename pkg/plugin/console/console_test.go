package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gitlumen/gitlumen/pkg/core"
	"github.com/gitlumen/gitlumen/pkg/plugin"
)

func sampleEvent() core.Event {
	return core.Event{
		ID:          "pipeline_900",
		Kind:        core.KindPipeline,
		ProjectID:   "42",
		ProjectName: "demo",
		Branch:      "main",
		Author:      "Alice",
		Title:       "Pipeline failed for main",
		URL:         "https://gitlab.example.com/demo/-/pipelines/900",
		Timestamp:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Metadata:    core.PipelineMetadata{Status: "failed", Ref: "main"},
	}
}

func newConsole(t *testing.T, config map[string]any) (*Plugin, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	p, err := NewWithWriter(plugin.RuntimeConfig{
		ID:     "console-main",
		Name:   "Console",
		Type:   TypeTag,
		Active: true,
		Config: config,
	}, &buf)
	if err != nil {
		t.Fatalf("new console plugin: %v", err)
	}
	return p, &buf
}

func TestBasicLevel(t *testing.T) {
	p, buf := newConsole(t, map[string]any{"logLevel": "basic", "includeTimestamp": false})
	res := p.OnPipelineEvent(context.Background(), sampleEvent())
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if !strings.HasPrefix(res.MessageID, "console_") {
		t.Fatalf("unexpected message id: %q", res.MessageID)
	}
	got := buf.String()
	if got != "GitLumen pipeline in demo\n" {
		t.Fatalf("unexpected basic output: %q", got)
	}
}

func TestDetailedLevelIsDefault(t *testing.T) {
	p, buf := newConsole(t, map[string]any{"includeTimestamp": false})
	p.OnPipelineEvent(context.Background(), sampleEvent())
	got := buf.String()
	if !strings.Contains(got, `pipeline "Pipeline failed for main" by Alice in demo`) {
		t.Fatalf("unexpected detailed output: %q", got)
	}
	if strings.Contains(got, "https://") {
		t.Fatalf("detailed level should not include the url: %q", got)
	}
}

func TestFullLevelIncludesMetadata(t *testing.T) {
	p, buf := newConsole(t, map[string]any{"logLevel": "full", "includeTimestamp": false})
	p.OnPipelineEvent(context.Background(), sampleEvent())
	got := buf.String()
	if !strings.Contains(got, "https://gitlab.example.com/demo/-/pipelines/900") {
		t.Fatalf("expected url in full output: %q", got)
	}
	if !strings.Contains(got, `"status": "failed"`) {
		t.Fatalf("expected metadata json in full output: %q", got)
	}
}

func TestFullLevelMetadataOptOut(t *testing.T) {
	p, buf := newConsole(t, map[string]any{"logLevel": "full", "includeTimestamp": false, "includeMetadata": false})
	p.OnPipelineEvent(context.Background(), sampleEvent())
	if strings.Contains(buf.String(), `"status"`) {
		t.Fatalf("expected metadata suppressed: %q", buf.String())
	}
}

func TestTimestampIncludedByDefault(t *testing.T) {
	p, buf := newConsole(t, map[string]any{"logLevel": "basic"})
	p.OnPipelineEvent(context.Background(), sampleEvent())
	if !strings.HasPrefix(buf.String(), "[") {
		t.Fatalf("expected timestamp prefix: %q", buf.String())
	}
}

func TestColorOutput(t *testing.T) {
	p, buf := newConsole(t, map[string]any{"logLevel": "basic", "includeTimestamp": false, "colorOutput": true})
	p.OnPipelineEvent(context.Background(), sampleEvent())
	if !strings.HasPrefix(buf.String(), "\x1b[36m") {
		t.Fatalf("expected color escape, got %q", buf.String())
	}
}

func TestCustomPrefix(t *testing.T) {
	p, buf := newConsole(t, map[string]any{"logLevel": "basic", "includeTimestamp": false, "prefix": "[hooks]"})
	p.OnPipelineEvent(context.Background(), sampleEvent())
	if !strings.HasPrefix(buf.String(), "[hooks] ") {
		t.Fatalf("expected custom prefix, got %q", buf.String())
	}
}

func TestValidateConfigAcceptsAnything(t *testing.T) {
	p, _ := newConsole(t, nil)
	if !p.ValidateConfig(nil) {
		t.Fatalf("expected nil config to validate")
	}
	if !p.ValidateConfig(map[string]any{"unknownKey": 1}) {
		t.Fatalf("expected unknown keys to validate")
	}
	if p.ValidateConfig(map[string]any{"logLevel": 42}) {
		t.Fatalf("expected wrong-typed key to fail decode")
	}
}

func TestTestConnection(t *testing.T) {
	p, _ := newConsole(t, nil)
	if !p.TestConnection(context.Background()) {
		t.Fatalf("expected connection test to pass")
	}
}

func TestAllHandlersDeliver(t *testing.T) {
	p, buf := newConsole(t, map[string]any{"logLevel": "basic", "includeTimestamp": false})
	event := sampleEvent()
	handlers := []func(context.Context, core.Event) plugin.Result{
		p.OnMergeRequestEvent,
		p.OnPipelineEvent,
		p.OnIssueEvent,
		p.OnPushEvent,
		p.OnTagPushEvent,
		p.OnNoteEvent,
	}
	for i, handler := range handlers {
		if res := handler(context.Background(), event); !res.Success {
			t.Fatalf("handler %d failed: %+v", i, res)
		}
	}
	if got := strings.Count(buf.String(), "\n"); got != len(handlers) {
		t.Fatalf("expected %d lines, got %d", len(handlers), got)
	}
}
