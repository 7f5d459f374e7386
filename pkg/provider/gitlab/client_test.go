package gitlab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientDefaultsBaseURL(t *testing.T) {
	client, err := NewClient("", "token")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.api == nil {
		t.Fatalf("expected api client")
	}
}

func TestGetProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v4/projects/42" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"path_with_namespace":"team/demo"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "token")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	project, err := client.GetProject(context.Background(), "42")
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if project.ID != 42 || project.PathWithNamespace != "team/demo" {
		t.Fatalf("unexpected project: %+v", project)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"username":"bot"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "token")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if !client.HealthCheck(context.Background()) {
		t.Fatalf("expected health check to pass")
	}
	srv.Close()
	if client.HealthCheck(context.Background()) {
		t.Fatalf("expected health check to fail after shutdown")
	}
}
