package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gitlumen/gitlumen/pkg/core"
	"github.com/gitlumen/gitlumen/pkg/dispatch"
	"github.com/gitlumen/gitlumen/pkg/provider"
	"github.com/gitlumen/gitlumen/pkg/storage"
)

// WebhookHandler receives provider deliveries on
// POST /webhooks/{providerType}/{projectID}, validates them against the
// project's provider config, and hands the canonical event to the
// dispatcher.
type WebhookHandler struct {
	Providers   *provider.Registry
	Store       storage.ProviderStore
	Processor   *dispatch.Processor
	Logger      *log.Logger
	MaxBody     int64
	DebugEvents bool
}

type webhookResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.MaxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBody)
	}
	reqID := requestID(r)
	w.Header().Set("X-Request-Id", reqID)
	logger := core.WithRequestID(h.Logger, reqID)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeWebhookResponse(w, http.StatusMethodNotAllowed, webhookResponse{ID: reqID, Message: "POST only"})
		return
	}

	providerType, projectID, ok := splitWebhookPath(r.URL.Path)
	if !ok {
		writeWebhookResponse(w, http.StatusNotFound, webhookResponse{ID: reqID, Message: "unknown webhook path"})
		return
	}

	core.IncRequest(providerType)

	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Printf("webhook body read failed: %v", err)
		writeWebhookResponse(w, http.StatusBadRequest, webhookResponse{ID: reqID, Message: "unreadable body"})
		return
	}
	if h.DebugEvents {
		logger.Printf("debug event provider=%s project=%s payload=%s", providerType, projectID, string(rawBody))
	}

	record, err := h.Store.ForProject(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.Printf("webhook rejected: no provider config for project %s", projectID)
			writeWebhookResponse(w, http.StatusNotFound, webhookResponse{ID: reqID, Message: "unknown project"})
			return
		}
		logger.Printf("provider lookup failed for project %s: %v", projectID, err)
		writeWebhookResponse(w, http.StatusInternalServerError, webhookResponse{ID: reqID, Message: "provider lookup failed"})
		return
	}
	if record.Type != providerType {
		logger.Printf("webhook rejected: project %s is %s, delivery claims %s", projectID, record.Type, providerType)
		writeWebhookResponse(w, http.StatusNotFound, webhookResponse{ID: reqID, Message: "provider mismatch"})
		return
	}

	prov, err := h.Providers.New(provider.RuntimeConfig{
		ID:            record.ID,
		Name:          record.Name,
		Type:          record.Type,
		BaseURL:       record.BaseURL,
		AccessToken:   record.AccessToken,
		WebhookSecret: record.WebhookSecret,
		Active:        record.Active,
	})
	if err != nil {
		logger.Printf("provider init failed for project %s: %v", projectID, err)
		writeWebhookResponse(w, http.StatusInternalServerError, webhookResponse{ID: reqID, Message: "provider init failed"})
		return
	}

	if !prov.ValidateWebhook(rawBody, r.Header) {
		core.IncRejected(providerType)
		logger.Printf("webhook rejected: signature validation failed provider=%s project=%s", providerType, projectID)
		writeWebhookResponse(w, http.StatusUnauthorized, webhookResponse{ID: reqID, Message: "invalid webhook signature"})
		return
	}

	event := prov.ParseEvent(rawBody)
	logger.Printf("event accepted provider=%s project=%s kind=%s id=%s", providerType, projectID, event.Kind, event.ID)

	summary, err := h.Processor.Dispatch(r.Context(), reqID, projectID, event)
	if err != nil {
		logger.Printf("dispatch failed for event %s: %v", event.ID, err)
		writeWebhookResponse(w, http.StatusInternalServerError, webhookResponse{ID: reqID, Message: "dispatch failed"})
		return
	}
	logger.Printf("dispatch done event=%s plugins=%d ok=%d failed=%d", event.ID, len(summary.Outcomes), summary.Succeeded(), summary.Failed())

	message := fmt.Sprintf("event processed plugins=%d succeeded=%d failed=%d", len(summary.Outcomes), summary.Succeeded(), summary.Failed())
	writeWebhookResponse(w, http.StatusOK, webhookResponse{ID: reqID, Success: true, Message: message})
}

// splitWebhookPath extracts the provider type and project id from
// /webhooks/{providerType}/{projectID}.
func splitWebhookPath(path string) (string, string, bool) {
	rest, ok := strings.CutPrefix(path, "/webhooks/")
	if !ok {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func writeWebhookResponse(w http.ResponseWriter, status int, body webhookResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func requestID(r *http.Request) string {
	if r == nil {
		return uuid.NewString()
	}
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	if id := r.Header.Get("X-Correlation-Id"); id != "" {
		return id
	}
	return uuid.NewString()
}
