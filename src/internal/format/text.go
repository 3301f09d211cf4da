// FILE: elklog/src/internal/format/text.go
package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"elklog/src/internal/core"

	"github.com/lixenwraith/log"
)

const defaultTextTemplate = "[{{.Timestamp | FmtTime}}] [{{.Level}}] {{.Logger}} - {{.Message}}{{with .Extras}} {{.}}{{end}}"

// TextFormatterOptions configures the text formatter.
type TextFormatterOptions struct {
	Template        string
	TimestampFormat string
}

// Produces human-readable text lines using templates
type TextFormatter struct {
	config   *TextFormatterOptions
	template *template.Template
	logger   *log.Logger
}

// Creates a new text formatter, nil options select the defaults
func NewTextFormatter(opts *TextFormatterOptions, logger *log.Logger) (*TextFormatter, error) {
	cfg := &TextFormatterOptions{
		Template:        defaultTextTemplate,
		TimestampFormat: time.RFC3339,
	}
	if opts != nil {
		if opts.Template != "" {
			cfg.Template = opts.Template
		}
		if opts.TimestampFormat != "" {
			cfg.TimestampFormat = opts.TimestampFormat
		}
	}

	f := &TextFormatter{
		config: cfg,
		logger: logger,
	}

	// Create template with helper functions
	funcMap := template.FuncMap{
		"FmtTime": func(t time.Time) string {
			return t.UTC().Format(f.config.TimestampFormat)
		},
		"ToUpper":   strings.ToUpper,
		"ToLower":   strings.ToLower,
		"TrimSpace": strings.TrimSpace,
	}

	tmpl, err := template.New("log").Funcs(funcMap).Parse(f.config.Template)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	f.template = tmpl
	return f, nil
}

// Formats the record using the template
func (f *TextFormatter) Format(rec core.LogRecord) ([]byte, error) {
	data := map[string]any{
		"Timestamp": rec.Time,
		"Level":     rec.Level.String(),
		"Logger":    rec.LoggerName,
		"Message":   rec.Message,
		"Extras":    extras(rec.Fields),
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		f.logger.Debug("msg", "Template execution failed, using fallback",
			"component", "text_formatter",
			"error", err)

		fallback := fmt.Sprintf("[%s] [%s] %s - %s\n",
			rec.Time.UTC().Format(f.config.TimestampFormat),
			rec.Level.String(),
			rec.LoggerName,
			rec.Message)
		return []byte(fallback), nil
	}

	// Ensure newline at end
	result := buf.Bytes()
	if len(result) == 0 || result[len(result)-1] != '\n' {
		result = append(result, '\n')
	}

	return result, nil
}

// Returns the formatter name
func (f *TextFormatter) Name() string {
	return "txt"
}

// extras renders the optional fields that are set as key=value pairs.
func extras(fields core.Fields) string {
	var parts []string
	if fields.Status != nil {
		parts = append(parts, fmt.Sprintf("status=%v", fields.Status))
	}
	if fields.Function != "" {
		parts = append(parts, "function="+fields.Function)
	}
	if fields.Variable != "" {
		parts = append(parts, "variable="+fields.Variable)
	}
	if fields.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", fields.Value))
	}
	return strings.Join(parts, " ")
}
