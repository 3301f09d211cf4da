// FILE: elklog/src/cmd/elklog/commands/help.go
package commands

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
)

// generalHelpTemplate is the default help message shown when no specific command is requested.
const generalHelpTemplate = `elklog: structured logging to a rotating file and an HTTP log store.

Usage:
  elklog <command> [options]

Commands:
%s

For command-specific help:
  elklog help <command>
  elklog <command> --help

Environment Variables:
  ELKLOG_CONFIG_FILE   Default config path (default: config.yaml)
  ELKLOG_LEVEL         Level of the tool's own diagnostics: debug, info, warn, error
  ELKLOG_QUIET         Suppress all console output (true/false)

Examples:
  # Check a config and show the effective settings
  elklog check -c /etc/elklog/config.yaml

  # Send one record
  elklog emit -c config.yaml -level error -m "payment failed" -status 502 -function Charge

  # Ship every line of a file at INFO
  elklog emit -c config.yaml < batch.txt
`

// HelpCommand handles the display of general or command-specific help messages.
type HelpCommand struct {
	router *CommandRouter
}

// NewHelpCommand creates a new help command handler.
func NewHelpCommand(router *CommandRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

// Execute displays the appropriate help message based on the provided arguments.
func (c *HelpCommand) Execute(args []string) error {
	w := c.router.env.stdout()

	if len(args) == 0 || args[0] == "" {
		fmt.Fprintf(w, generalHelpTemplate, formatCommandList(c.router.GetCommands()))
		return nil
	}

	handler, ok := c.router.GetCommand(args[0])
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	fmt.Fprint(w, handler.Help())
	return nil
}

// Description returns a brief one-line description of the command.
func (c *HelpCommand) Description() string {
	return "Display help information"
}

// Help returns the detailed help text for the 'help' command itself.
func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  elklog help              Show general help
  elklog help <command>    Show help for a specific command
`
}

// formatCommandList renders one aligned "name  description" line per command.
func formatCommandList(commands map[string]Handler) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		fmt.Fprintf(w, "  %s\t%s\n", name, commands[name].Description())
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}
