package commands

import (
	"strings"

	"github.com/toolvizion/go-language-manager/internal/logging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

const commandModuleRoot = "langmanager.commands"

// CommandLogger returns a module-scoped logger for command handlers,
// enriching it with consistent structured fields so command executions can
// be filtered alongside the engine's own entries.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
