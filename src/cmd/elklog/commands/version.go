// FILE: elklog/src/cmd/elklog/commands/version.go
package commands

import (
	"fmt"

	"elklog/src/internal/version"
)

// VersionCommand handles version display
type VersionCommand struct {
	env Env
}

// NewVersionCommand creates a new version command
func NewVersionCommand(env Env) *VersionCommand {
	return &VersionCommand{env: env}
}

func (c *VersionCommand) Execute(args []string) error {
	fmt.Fprintln(c.env.stdout(), version.String())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show elklog version information

Usage:
  elklog version
  elklog -v
  elklog --version
`
}
