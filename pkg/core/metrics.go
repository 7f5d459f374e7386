package core

import "expvar"

var (
	requestsTotal    = expvar.NewMap("gitlumen_webhook_requests_total")
	rejectedTotal    = expvar.NewMap("gitlumen_webhook_rejected_total")
	parseFallbacks   = expvar.NewMap("gitlumen_parse_fallbacks_total")
	dispatchFailures = expvar.NewMap("gitlumen_dispatch_failures_total")
)

// IncRequest counts one inbound webhook request per provider type.
func IncRequest(provider string) {
	requestsTotal.Add(provider, 1)
}

// IncRejected counts one webhook rejected before parsing (bad signature or
// unsupported event kind).
func IncRejected(provider string) {
	rejectedTotal.Add(provider, 1)
}

// IncParseFallback counts one payload that degraded to the generic kind.
func IncParseFallback(objectKind string) {
	if objectKind == "" {
		objectKind = "unknown"
	}
	parseFallbacks.Add(objectKind, 1)
}

// IncDispatchFailure counts one failed plugin dispatch per plugin type.
func IncDispatchFailure(pluginType string) {
	dispatchFailures.Add(pluginType, 1)
}
