// FILE: elklog/src/cmd/elklog/commands/emit.go
package commands

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"elklog/src/internal/core"
	"elklog/src/pkg/elklog"

	"golang.org/x/term"
)

// EmitCommand sends records through a dispatcher built from a config file
type EmitCommand struct {
	env   Env
	stdin *os.File
}

// NewEmitCommand creates a new emit command
func NewEmitCommand(env Env) *EmitCommand {
	return &EmitCommand{env: env, stdin: os.Stdin}
}

func (c *EmitCommand) Execute(args []string) error {
	fs := flag.NewFlagSet("emit", flag.ContinueOnError)
	fs.SetOutput(c.env.stderr())

	var (
		configPath string
		levelName  string
		message    string
		status     string
		function   string
		variable   string
		value      string
		showStats  bool
	)
	fs.StringVar(&configPath, "c", c.env.ConfigFile, "Config file path")
	fs.StringVar(&configPath, "config", c.env.ConfigFile, "Config file path")
	fs.StringVar(&levelName, "level", "info", "Record level: debug, info, warning, error, critical")
	fs.StringVar(&message, "m", "", "Message (default: remaining arguments, or one record per stdin line)")
	fs.StringVar(&status, "status", "", "Optional status string or code")
	fs.StringVar(&function, "function", "", "Optional function label")
	fs.StringVar(&variable, "variable", "", "Optional variable name")
	fs.StringVar(&value, "value", "", "Optional scalar value")
	fs.BoolVar(&showStats, "stats", false, "Print delivery statistics when done")

	if err := fs.Parse(args); err != nil {
		return err
	}

	level, err := core.ParseLevel(levelName)
	if err != nil {
		return err
	}

	messages, err := c.collectMessages(message, fs.Args())
	if err != nil {
		return err
	}

	d, err := elklog.NewFromFile(configPath,
		elklog.WithLogger(c.env.Logger),
		elklog.WithDiagnostics(c.env.stderr()))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	fields := elklog.Fields{
		Status:   parseScalar(status),
		Function: function,
		Variable: variable,
		Value:    parseScalar(value),
	}
	ctx := c.env.context()
	for _, m := range messages {
		if ctx.Err() != nil {
			break
		}
		d.LogContext(ctx, level, m, fields)
	}

	if showStats {
		printStats(c.env.stdout(), d.Stats())
	}

	return d.Close()
}

// collectMessages picks the -m flag, then positional args, then stdin.
func (c *EmitCommand) collectMessages(flagMessage string, rest []string) ([]string, error) {
	if flagMessage != "" {
		return []string{flagMessage}, nil
	}
	if len(rest) > 0 {
		return []string{strings.Join(rest, " ")}, nil
	}
	if c.stdin == nil || term.IsTerminal(int(c.stdin.Fd())) {
		return nil, fmt.Errorf("no message given: use -m, arguments or pipe lines on stdin")
	}
	return readLines(c.stdin)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no message given on stdin")
	}
	return lines, nil
}

// parseScalar keeps numbers and booleans typed so they serialize as JSON
// numbers and booleans rather than strings.
func parseScalar(s string) any {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	return s
}

func printStats(w io.Writer, st elklog.Stats) {
	for _, s := range st.Sinks {
		fmt.Fprintf(w, "%-8s processed=%d failed=%d\n", s.Type, s.TotalProcessed, s.TotalFailed)
	}
	fmt.Fprintf(w, "fallbacks=%d dropped=%d\n", st.Fallbacks, st.Dropped)
}

func (c *EmitCommand) Description() string {
	return "Send log records using a config file"
}

func (c *EmitCommand) Help() string {
	return `Emit Command - Send log records through the configured sinks

Usage:
  elklog emit [options] [message...]

Options:
  -c, -config <path>    Config file (default: $ELKLOG_CONFIG_FILE or config.yaml)
  -level <name>         debug, info, warning, error, critical (default: info)
  -m <message>          Message text
  -status <v>           Optional status; integers stay numeric
  -function <name>      Optional function label
  -variable <name>      Optional variable name
  -value <v>            Optional scalar value; numbers stay numeric
  -stats                Print per-sink counters when done

Without -m or arguments, every non-empty stdin line becomes one record.
A missing or malformed config terminates with status 1.
`
}
