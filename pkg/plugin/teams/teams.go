package teams

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gitlumen/gitlumen/pkg/core"
	"github.com/gitlumen/gitlumen/pkg/plugin"
)

// TypeTag is the registry key for this plugin.
const TypeTag = "teams"

// Config is the plugin-type-specific shape of the opaque runtime config.
type Config struct {
	WebhookURL     string       `json:"webhookUrl"`
	BotName        string       `json:"botName"`
	BotAvatar      string       `json:"botAvatar,omitempty"`
	DefaultChannel string       `json:"defaultChannel,omitempty"`
	EnableMentions bool         `json:"enableMentions,omitempty"`
	MentionUsers   []string     `json:"mentionUsers,omitempty"`
	ColorScheme    *ColorScheme `json:"colorScheme,omitempty"`
}

// Plugin delivers events to a Microsoft Teams incoming webhook.
type Plugin struct {
	id        string
	name      string
	cfg       Config
	client    *Client
	formatter *Formatter
}

// New creates a configured Teams plugin instance.
func New(rc plugin.RuntimeConfig) (*Plugin, error) {
	var cfg Config
	if err := plugin.DecodeConfig(rc.Config, &cfg); err != nil {
		return nil, fmt.Errorf("teams config: %w", err)
	}
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("teams config: webhookUrl is required")
	}
	return &Plugin{
		id:        rc.ID,
		name:      rc.Name,
		cfg:       cfg,
		client:    NewClient(cfg.WebhookURL),
		formatter: NewFormatter(cfg),
	}, nil
}

// Register adds the Teams factory to a plugin registry.
func Register(registry *plugin.Registry) error {
	return registry.Register(plugin.Factory{
		Meta: plugin.Metadata{
			Type:        TypeTag,
			Name:        "Microsoft Teams",
			Description: "Sends notifications to a Teams channel via incoming webhook",
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

// ValidateConfig requires a syntactically valid webhook URL and a bot name.
func (p *Plugin) ValidateConfig(config map[string]any) bool {
	var cfg Config
	if err := plugin.DecodeConfig(config, &cfg); err != nil {
		return false
	}
	if cfg.WebhookURL == "" || cfg.BotName == "" {
		return false
	}
	parsed, err := url.Parse(cfg.WebhookURL)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

// TestConnection posts a small test card.
func (p *Plugin) TestConnection(ctx context.Context) bool {
	msg := Message{
		Title:      "Connection Test",
		Text:       "GitLumen Teams plugin connection test successful!",
		ThemeColor: defaultColorScheme().Info,
	}
	return p.client.Send(ctx, msg) == nil
}

func (p *Plugin) send(ctx context.Context, event core.Event) plugin.Result {
	if err := p.client.Send(ctx, p.formatter.Format(event)); err != nil {
		return plugin.Failed(err)
	}
	return plugin.OK(fmt.Sprintf("teams_%d", time.Now().UnixMilli()))
}

func (p *Plugin) OnMergeRequestEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(ctx, event)
}

func (p *Plugin) OnPipelineEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(ctx, event)
}

func (p *Plugin) OnIssueEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(ctx, event)
}

func (p *Plugin) OnPushEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(ctx, event)
}

func (p *Plugin) OnTagPushEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(ctx, event)
}

func (p *Plugin) OnNoteEvent(ctx context.Context, event core.Event) plugin.Result {
	return p.send(ctx, event)
}
