package plugin

import (
	"context"
	"time"

	"github.com/gitlumen/gitlumen/pkg/core"
)

// RuntimeConfig is the effective configuration a plugin instance is built
// from. It is produced fresh for every dispatch by merging the
// organization-level base config with project-level overrides; the Config
// map's shape is plugin-type-specific and is only validated by the plugin
// itself.
type RuntimeConfig struct {
	ID     string
	Name   string
	Type   string
	Active bool
	Config map[string]any
}

// Result is the outcome of one plugin invocation. It is never mutated
// after creation.
type Result struct {
	Success   bool      `json:"success"`
	MessageID string    `json:"messageId,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OK builds a successful Result.
func OK(messageID string) Result {
	return Result{Success: true, MessageID: messageID, Timestamp: time.Now().UTC()}
}

// Failed builds a failed Result from an error.
func Failed(err error) Result {
	res := Result{Timestamp: time.Now().UTC()}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// Plugin is an integration adapter for one notification sink. Event
// delivery happens through the optional capability interfaces below; a
// plugin implements only the kinds it supports, and the dispatcher
// silently skips the rest.
type Plugin interface {
	ID() string
	Name() string
	Type() string

	// ValidateConfig performs the plugin's type-specific structural check
	// on a candidate config map.
	ValidateConfig(config map[string]any) bool

	// TestConnection is a best-effort live probe. It swallows its own
	// errors into false.
	TestConnection(ctx context.Context) bool
}

// Handler delivers one event to one sink.
type Handler func(ctx context.Context, event core.Event) Result

// Capability interfaces, one per dispatchable event kind.

type MergeRequestHandler interface {
	OnMergeRequestEvent(ctx context.Context, event core.Event) Result
}

type PipelineHandler interface {
	OnPipelineEvent(ctx context.Context, event core.Event) Result
}

type IssueHandler interface {
	OnIssueEvent(ctx context.Context, event core.Event) Result
}

type PushHandler interface {
	OnPushEvent(ctx context.Context, event core.Event) Result
}

type TagPushHandler interface {
	OnTagPushEvent(ctx context.Context, event core.Event) Result
}

type NoteHandler interface {
	OnNoteEvent(ctx context.Context, event core.Event) Result
}

// HandlerFor selects the plugin's handler for an event kind through the
// static kind-to-capability table. The second return is false when the
// plugin does not support the kind, which callers treat as a silent skip.
func HandlerFor(p Plugin, kind core.EventKind) (Handler, bool) {
	switch kind {
	case core.KindMergeRequest:
		if h, ok := p.(MergeRequestHandler); ok {
			return h.OnMergeRequestEvent, true
		}
	case core.KindPipeline:
		if h, ok := p.(PipelineHandler); ok {
			return h.OnPipelineEvent, true
		}
	case core.KindIssue:
		if h, ok := p.(IssueHandler); ok {
			return h.OnIssueEvent, true
		}
	case core.KindPush:
		if h, ok := p.(PushHandler); ok {
			return h.OnPushEvent, true
		}
	case core.KindTagPush:
		if h, ok := p.(TagPushHandler); ok {
			return h.OnTagPushEvent, true
		}
	case core.KindNote:
		if h, ok := p.(NoteHandler); ok {
			return h.OnNoteEvent, true
		}
	}
	return nil, false
}
