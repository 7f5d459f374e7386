package dispatch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gitlumen/gitlumen/pkg/core"
	"github.com/gitlumen/gitlumen/pkg/plugin"
	"github.com/gitlumen/gitlumen/pkg/storage"
)

// Outcome is the per-plugin result of one dispatch.
type Outcome struct {
	PluginID   string        `json:"pluginId"`
	PluginName string        `json:"pluginName"`
	PluginType string        `json:"pluginType"`
	Result     plugin.Result `json:"result"`
}

// Summary reports one dispatch cycle: which plugins ran and how each fared.
type Summary struct {
	RequestID string         `json:"requestId"`
	EventID   string         `json:"eventId"`
	ProjectID string         `json:"projectId"`
	Kind      core.EventKind `json:"kind"`
	Outcomes  []Outcome      `json:"outcomes"`
}

// Succeeded counts plugins that delivered.
func (s Summary) Succeeded() int {
	count := 0
	for _, out := range s.Outcomes {
		if out.Result.Success {
			count++
		}
	}
	return count
}

// Failed counts plugins that did not deliver.
func (s Summary) Failed() int {
	return len(s.Outcomes) - s.Succeeded()
}

// Processor fans a canonical event out to every plugin enabled for the
// event's project. Plugin failures are isolated: every plugin gets a
// chance to handle the event, and one bad plugin never blocks a sibling.
type Processor struct {
	Plugins  storage.PluginStore
	Registry *plugin.Registry
	Logs     storage.EventLogStore // optional
	Logger   *log.Logger
}

func (p *Processor) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return core.NewLogger("dispatch")
}

// Dispatch resolves the enabled plugin set for the project, runs every
// matching handler concurrently, and returns one Outcome per plugin that
// ran. It returns an error only when the plugin set itself cannot be
// assembled (store failure, unknown plugin type); handler failures are
// reported inside the Summary.
func (p *Processor) Dispatch(ctx context.Context, requestID, projectID string, event core.Event) (Summary, error) {
	logger := core.WithRequestID(p.logger(), requestID)

	summary := Summary{
		RequestID: requestID,
		EventID:   event.ID,
		ProjectID: projectID,
		Kind:      event.Kind,
	}

	enabled, err := p.Plugins.EnabledForProject(ctx, projectID)
	if err != nil {
		return summary, fmt.Errorf("load plugins for project %s: %w", projectID, err)
	}

	type target struct {
		inst    plugin.Plugin
		cfg     plugin.RuntimeConfig
		handler plugin.Handler
	}
	targets := make([]target, 0, len(enabled))
	for _, entry := range enabled {
		cfg := ResolveConfig(entry.Config, entry.Link)
		if !cfg.Active {
			continue
		}
		if filter := entry.Link.Filter; filter != "" {
			matched, err := MatchFilter(filter, event)
			if err != nil {
				logger.Printf("plugin %s filter error, skipping: %v", cfg.ID, err)
				continue
			}
			if !matched {
				continue
			}
		}
		inst, err := p.Registry.New(cfg)
		if err != nil {
			return summary, fmt.Errorf("instantiate plugin %s: %w", cfg.ID, err)
		}
		handler, ok := plugin.HandlerFor(inst, event.Kind)
		if !ok {
			logger.Printf("plugin %s (%s) has no handler for %s, skipping", cfg.ID, cfg.Type, event.Kind)
			continue
		}
		targets = append(targets, target{inst: inst, cfg: cfg, handler: handler})
	}

	if len(targets) == 0 {
		return summary, nil
	}

	results := make([]plugin.Result, len(targets))
	var wg sync.WaitGroup
	for i, tgt := range targets {
		wg.Add(1)
		go func(i int, tgt target) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Printf("plugin %s panicked: %v", tgt.cfg.ID, r)
					results[i] = plugin.Failed(fmt.Errorf("plugin panic: %v", r))
				}
			}()
			results[i] = tgt.handler(ctx, event)
		}(i, tgt)
	}
	wg.Wait()

	summary.Outcomes = make([]Outcome, len(targets))
	for i, tgt := range targets {
		if !results[i].Success {
			core.IncDispatchFailure(tgt.cfg.Type)
			logger.Printf("plugin %s (%s) failed for event %s: %s", tgt.cfg.ID, tgt.cfg.Type, event.ID, results[i].Error)
		}
		summary.Outcomes[i] = Outcome{
			PluginID:   tgt.cfg.ID,
			PluginName: tgt.cfg.Name,
			PluginType: tgt.cfg.Type,
			Result:     results[i],
		}
	}

	p.recordOutcomes(ctx, logger, event, summary)
	return summary, nil
}

// recordOutcomes persists one event log row per plugin run. Logging is
// best effort: a storage failure is reported but never fails the dispatch.
func (p *Processor) recordOutcomes(ctx context.Context, logger *log.Logger, event core.Event, summary Summary) {
	if p.Logs == nil {
		return
	}
	for _, out := range summary.Outcomes {
		rec := storage.EventLogRecord{
			ID:           uuid.NewString(),
			RequestID:    summary.RequestID,
			ProjectID:    summary.ProjectID,
			EventID:      event.ID,
			EventKind:    string(event.Kind),
			PluginID:     out.PluginID,
			PluginType:   out.PluginType,
			Success:      out.Result.Success,
			MessageID:    out.Result.MessageID,
			ErrorMessage: out.Result.Error,
			CreatedAt:    time.Now().UTC(),
		}
		if err := p.Logs.Record(ctx, rec); err != nil {
			logger.Printf("event log write failed for event %s plugin %s: %v", event.ID, out.PluginID, err)
		}
	}
}
