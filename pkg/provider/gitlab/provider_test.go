package gitlab

import (
	"net/http"
	"testing"

	"github.com/gitlumen/gitlumen/pkg/core"
	"github.com/gitlumen/gitlumen/pkg/provider"
)

func newAdapter(t *testing.T) *Provider {
	t.Helper()
	p, err := New(provider.RuntimeConfig{
		ID:            "gl-main",
		Name:          "Main GitLab",
		Type:          TypeTag,
		BaseURL:       "https://gitlab.example.com",
		AccessToken:   "glpat-test",
		WebhookSecret: "s3cret",
		Active:        true,
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestProviderIdentity(t *testing.T) {
	p := newAdapter(t)
	if p.ID() != "gl-main" || p.Name() != "Main GitLab" || p.Type() != "gitlab" {
		t.Fatalf("unexpected identity: %s %s %s", p.ID(), p.Name(), p.Type())
	}
}

func TestProviderValidateAndParse(t *testing.T) {
	p := newAdapter(t)
	payload := []byte(`{"object_kind":"push","ref":"refs/heads/main","project":{"id":42,"name":"demo"}}`)

	headers := http.Header{}
	headers.Set("X-Gitlab-Token", "s3cret")
	if !p.ValidateWebhook(payload, headers) {
		t.Fatalf("expected delivery to validate")
	}
	headers.Set("X-Gitlab-Token", "wrong")
	if p.ValidateWebhook(payload, headers) {
		t.Fatalf("expected bad token to fail")
	}

	event := p.ParseEvent(payload)
	if event.Kind != core.KindPush {
		t.Fatalf("unexpected kind: %q", event.Kind)
	}
	if event.ProjectID != "42" {
		t.Fatalf("unexpected project id: %q", event.ProjectID)
	}
}

func TestRegisterWiresFactory(t *testing.T) {
	registry := provider.NewRegistry()
	if err := Register(registry); err != nil {
		t.Fatalf("register: %v", err)
	}
	prov, err := registry.New(provider.RuntimeConfig{ID: "gl-1", Type: TypeTag, BaseURL: "https://gitlab.example.com"})
	if err != nil {
		t.Fatalf("new from registry: %v", err)
	}
	if prov.Type() != TypeTag {
		t.Fatalf("unexpected provider type: %q", prov.Type())
	}
}
