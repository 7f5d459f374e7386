package provider

import (
	"context"
	"net/http"

	"github.com/gitlumen/gitlumen/pkg/core"
)

// RuntimeConfig describes one configured upstream connection. It is created
// by configuration load and never mutated by the ingestion pipeline.
type RuntimeConfig struct {
	ID            string
	Name          string
	Type          string
	BaseURL       string
	AccessToken   string
	WebhookSecret string
	Active        bool
}

// ProjectInfo is project metadata fetched from a provider's remote API.
type ProjectInfo struct {
	ID            string
	Name          string
	Description   string
	WebURL        string
	DefaultBranch string
	Visibility    string
}

// Provider is an integration adapter for one hosting platform. Adapters
// validate inbound webhooks, parse payloads into canonical events, and look
// up project metadata remotely.
type Provider interface {
	ID() string
	Name() string
	Type() string

	// ValidateWebhook authenticates an inbound call. It reports false and
	// never panics: a missing secret, missing signature header, missing
	// object kind, or an event kind outside the adapter's allow-list all
	// fail validation.
	ValidateWebhook(payload []byte, headers http.Header) bool

	// ParseEvent normalizes a raw payload into a canonical event. It is
	// total: kinds the adapter does not model degrade to the generic kind.
	ParseEvent(payload []byte) core.Event

	// GetProjectInfo fetches project metadata from the provider API.
	GetProjectInfo(ctx context.Context, projectID string) (ProjectInfo, error)
}

// Factory builds a configured Provider instance.
type Factory func(cfg RuntimeConfig) (Provider, error)
