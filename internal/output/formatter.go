// Package output provides formatters for displaying validation results
// in various formats (table, YAML, JSON).
package output

import (
	"fmt"

	"github.com/Ferroin/fvirt/models"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML format for machine consumption.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// Formatter formats validation reports for output.
type Formatter interface {
	// FormatReport formats every violation in the report.
	FormatReport(r *models.Report) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}

// violationView is the serializable shape of a violation for the YAML and
// JSON formatters.
type violationView struct {
	Path  string `json:"path" yaml:"path"`
	Rule  string `json:"rule" yaml:"rule"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
}

func viewsOf(r *models.Report) []violationView {
	views := make([]violationView, len(r.Violations))
	for i, v := range r.Violations {
		views[i] = violationView{Path: v.Path, Rule: string(v.Rule), Value: v.Value}
	}
	return views
}
