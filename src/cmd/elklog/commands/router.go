// FILE: elklog/src/cmd/elklog/commands/router.go
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lixenwraith/log"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// Env carries process-wide settings into the commands.
type Env struct {
	// Ctx is cancelled on SIGINT or SIGTERM, nil means background
	Ctx        context.Context
	Logger     *log.Logger
	ConfigFile string
	Quiet      bool

	// Stdout and Stderr default to the process streams
	Stdout io.Writer
	Stderr io.Writer
}

func (e Env) context() context.Context {
	if e.Ctx != nil {
		return e.Ctx
	}
	return context.Background()
}

func (e Env) stdout() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	if e.Quiet {
		return io.Discard
	}
	return os.Stdout
}

func (e Env) stderr() io.Writer {
	if e.Stderr != nil {
		return e.Stderr
	}
	if e.Quiet {
		return io.Discard
	}
	return os.Stderr
}

// CommandRouter handles the routing of CLI arguments to the appropriate subcommand handler.
type CommandRouter struct {
	env      Env
	commands map[string]Handler
}

// NewCommandRouter creates and initializes the command router with all available commands.
func NewCommandRouter(env Env) *CommandRouter {
	router := &CommandRouter{
		env:      env,
		commands: make(map[string]Handler),
	}

	// Register available commands
	router.commands["emit"] = NewEmitCommand(env)
	router.commands["check"] = NewCheckCommand(env)
	router.commands["version"] = NewVersionCommand(env)
	router.commands["help"] = NewHelpCommand(router)

	return router
}

// Route checks for and executes a subcommand based on the provided CLI arguments.
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil
	}

	cmdName := args[1]

	// Special case: help flag at any position shows general help
	for _, arg := range args[1:] {
		if arg == "-h" || arg == "--help" {
			// If it's after a valid command, show command-specific help
			if handler, exists := r.commands[cmdName]; exists && cmdName != "help" {
				fmt.Fprint(r.env.stdout(), handler.Help())
				return true, nil
			}
			// Otherwise show general help
			return true, r.commands["help"].Execute(nil)
		}
	}

	switch cmdName {
	case "-v", "--version":
		cmdName = "version"
	}

	handler, exists := r.commands[cmdName]
	if !exists {
		return false, fmt.Errorf("unknown command: %s\n\nRun 'elklog help' for usage", cmdName)
	}

	return true, handler.Execute(args[2:])
}

// GetCommand returns a specific command handler by its name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommands returns a map of all registered commands.
func (r *CommandRouter) GetCommands() map[string]Handler {
	return r.commands
}

// ShowCommands displays a list of available subcommands to stderr.
func (r *CommandRouter) ShowCommands() {
	w := r.env.stderr()
	fmt.Fprintln(w, "Usage: elklog <command> [options]")
	fmt.Fprintln(w, "\nAvailable commands:")
	fmt.Fprintln(w, formatCommandList(r.commands))
	fmt.Fprintln(w, "\nUse 'elklog <command> --help' for command-specific help")
}
