package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gitlumen/gitlumen/pkg/core"
	"github.com/gitlumen/gitlumen/pkg/plugin"
)

// TypeTag is the registry key for this plugin.
const TypeTag = "console"

// Config controls how events are rendered. Every field is optional; the
// plugin accepts any config map.
type Config struct {
	LogLevel         string `json:"logLevel,omitempty"`
	IncludeTimestamp *bool  `json:"includeTimestamp,omitempty"`
	IncludeMetadata  *bool  `json:"includeMetadata,omitempty"`
	ColorOutput      *bool  `json:"colorOutput,omitempty"`
	Prefix           string `json:"prefix,omitempty"`
}

const (
	levelBasic    = "basic"
	levelDetailed = "detailed"
	levelFull     = "full"
)

const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorCyan   = "\x1b[36m"
)

// Plugin logs events to a writer, mainly for local debugging.
type Plugin struct {
	id   string
	name string
	cfg  Config
	out  io.Writer
}

// New creates a console plugin writing to stdout.
func New(rc plugin.RuntimeConfig) (*Plugin, error) {
	return NewWithWriter(rc, os.Stdout)
}

// NewWithWriter creates a console plugin with an explicit output writer.
func NewWithWriter(rc plugin.RuntimeConfig, out io.Writer) (*Plugin, error) {
	var cfg Config
	if err := plugin.DecodeConfig(rc.Config, &cfg); err != nil {
		return nil, fmt.Errorf("console config: %w", err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = levelDetailed
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "GitLumen"
	}
	return &Plugin{id: rc.ID, name: rc.Name, cfg: cfg, out: out}, nil
}

// Register adds the console factory to a plugin registry.
func Register(registry *plugin.Registry) error {
	return registry.Register(plugin.Factory{
		Meta: plugin.Metadata{
			Type:        TypeTag,
			Name:        "Console Logger",
			Description: "Console logging plugin for debugging",
			Version:     "1.0.0",
			Author:      "GitLumen Team",
		},
		New: func(rc plugin.RuntimeConfig) (plugin.Plugin, error) {
			return New(rc)
		},
	})
}

func (p *Plugin) ID() string   { return p.id }
func (p *Plugin) Name() string { return p.name }
func (p *Plugin) Type() string { return TypeTag }

// ValidateConfig accepts any config map; the plugin has no required keys.
func (p *Plugin) ValidateConfig(config map[string]any) bool {
	var cfg Config
	return plugin.DecodeConfig(config, &cfg) == nil
}

// TestConnection always succeeds, there is nothing to probe.
func (p *Plugin) TestConnection(ctx context.Context) bool {
	return true
}

func (p *Plugin) send(event core.Event) plugin.Result {
	p.logEvent(event)
	return plugin.OK(fmt.Sprintf("console_%d", time.Now().UnixMilli()))
}

func (p *Plugin) logEvent(event core.Event) {
	timestamp := ""
	if p.cfg.IncludeTimestamp == nil || *p.cfg.IncludeTimestamp {
		timestamp = fmt.Sprintf("[%s] ", time.Now().UTC().Format(time.RFC3339))
	}
	prefix := p.cfg.Prefix + " "

	switch p.cfg.LogLevel {
	case levelBasic:
		p.printf("%s%s%s in %s\n", timestamp, prefix, event.Kind, event.ProjectName)
	case levelFull:
		p.printf("%s%s%s %q by %s in %s (%s)\n", timestamp, prefix, event.Kind, event.Title, event.Author, event.ProjectName, event.URL)
		if p.cfg.IncludeMetadata == nil || *p.cfg.IncludeMetadata {
			if raw, err := json.MarshalIndent(event.Metadata, "", "  "); err == nil {
				p.printf("%s\n", raw)
			}
		}
	default:
		p.printf("%s%s%s %q by %s in %s\n", timestamp, prefix, event.Kind, event.Title, event.Author, event.ProjectName)
	}
}

func (p *Plugin) printf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if p.cfg.ColorOutput != nil && *p.cfg.ColorOutput {
		text = colorCyan + text + colorReset
	}
	fmt.Fprint(p.out, text)
}

func (p *Plugin) OnMergeRequestEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(event)
}

func (p *Plugin) OnPipelineEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(event)
}

func (p *Plugin) OnIssueEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(event)
}

func (p *Plugin) OnPushEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(event)
}

func (p *Plugin) OnTagPushEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(event)
}

func (p *Plugin) OnNoteEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(event)
}
