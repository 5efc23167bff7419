package logging

import (
	"context"
	"strings"

	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

const (
	rootModule      = "langmanager"
	stagingModule   = "langmanager.staging"
	reportingModule = "langmanager.reporting"
	jobsModule      = "langmanager.jobs"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// StagingLogger returns the logger namespace reserved for the staging engine.
func StagingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, stagingModule)
}

// ReportingLogger returns the logger namespace reserved for the query layer.
func ReportingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, reportingModule)
}

// JobsLogger returns the logger namespace reserved for background jobs.
func JobsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, jobsModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
