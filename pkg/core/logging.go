package core

import (
	"log"
	"os"
	"strings"
)

// NewLogger returns a stdout logger prefixed with the application name and
// an optional component.
func NewLogger(component string) *log.Logger {
	prefix := "gitlumen"
	if component != "" {
		prefix = prefix + "/" + component
	}
	return log.New(os.Stdout, prefix+" ", log.LstdFlags|log.Lmicroseconds)
}

// WithRequestID derives a logger whose prefix carries the request id, so
// every line written during one webhook delivery can be correlated.
func WithRequestID(base *log.Logger, requestID string) *log.Logger {
	if base == nil {
		base = log.Default()
	}
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return base
	}
	prefix := base.Prefix() + "request_id=" + requestID + " "
	return log.New(base.Writer(), prefix, base.Flags())
}
