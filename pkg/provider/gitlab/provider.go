package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gitlumen/gitlumen/pkg/core"
	"github.com/gitlumen/gitlumen/pkg/provider"
)

// TypeTag is the registry key for this provider.
const TypeTag = "gitlab"

// Provider is the GitLab implementation of the provider adapter contract.
type Provider struct {
	cfg       provider.RuntimeConfig
	validator *Validator
	parser    *Parser
	client    *Client
}

// New creates a configured GitLab provider adapter.
func New(cfg provider.RuntimeConfig) (*Provider, error) {
	client, err := NewClient(cfg.BaseURL, cfg.AccessToken)
	if err != nil {
		return nil, err
	}
	return &Provider{
		cfg:       cfg,
		validator: NewValidator(cfg.WebhookSecret),
		parser:    NewParser(),
		client:    client,
	}, nil
}

// Register adds the GitLab factory to a provider registry.
func Register(registry *provider.Registry) error {
	return registry.Register(TypeTag, func(cfg provider.RuntimeConfig) (provider.Provider, error) {
		return New(cfg)
	})
}

func (p *Provider) ID() string   { return p.cfg.ID }
func (p *Provider) Name() string { return p.cfg.Name }
func (p *Provider) Type() string { return TypeTag }

// ValidateWebhook implements provider.Provider.
func (p *Provider) ValidateWebhook(payload []byte, headers http.Header) bool {
	return p.validator.Validate(payload, headers)
}

// ParseEvent implements provider.Provider.
func (p *Provider) ParseEvent(payload []byte) core.Event {
	return p.parser.Parse(payload)
}

// GetProjectInfo implements provider.Provider.
func (p *Provider) GetProjectInfo(ctx context.Context, projectID string) (provider.ProjectInfo, error) {
	project, err := p.client.GetProject(ctx, projectID)
	if err != nil {
		return provider.ProjectInfo{}, fmt.Errorf("project info for %s: %w", projectID, err)
	}
	return provider.ProjectInfo{
		ID:            strconv.Itoa(project.ID),
		Name:          project.Name,
		Description:   project.Description,
		WebURL:        project.WebURL,
		DefaultBranch: project.DefaultBranch,
		Visibility:    string(project.Visibility),
	}, nil
}

// Client exposes the underlying API client for remote lookups beyond the
// adapter contract (merge requests, pipelines, health checks).
func (p *Provider) Client() *Client {
	return p.client
}
