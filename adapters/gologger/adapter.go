// Package gologger bridges the glog stack onto go-job's logger contracts so
// the token maintenance pipeline (purge scheduling and queue workers) logs
// through the same resolved logger as the rest of the store.
package gologger

import (
	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"
)

// DefaultLoggerName is the component name maintenance loggers resolve under.
const DefaultLoggerName = "oauth-store"

// Resolve applies the provider > logger > nop precedence for a named
// component and returns both halves so callers can fan child loggers out.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// ResolveStore resolves under DefaultLoggerName. Maintenance components use
// this when the host did not hand them a dedicated logger.
func ResolveStore(provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return Resolve(DefaultLoggerName, provider, logger)
}

// ToJobProvider wraps a glog provider for go-job consumers. Returns nil when
// the provider is nil so go-job falls back to its own default.
func ToJobProvider(provider glog.LoggerProvider) job.LoggerProvider {
	if provider == nil {
		return nil
	}
	return job.GoLoggerProvider(provider)
}

// ToJobLogger wraps a single glog logger for go-job consumers.
func ToJobLogger(logger glog.Logger) job.Logger {
	if logger == nil {
		return nil
	}
	return job.GoLogger(logger)
}

// ResolveForJob resolves a component logger and returns the glog pair plus
// the go-job bridges in one call, so queue wiring code resolves exactly once.
func ResolveForJob(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger, job.LoggerProvider, job.Logger) {
	resolvedProvider, resolvedLogger := Resolve(name, provider, logger)
	return resolvedProvider, resolvedLogger, ToJobProvider(resolvedProvider), ToJobLogger(resolvedLogger)
}
