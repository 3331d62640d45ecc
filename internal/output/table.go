package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/Ferroin/fvirt/models"
)

// TableFormatter formats reports as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatReport formats the report as a table with one violation per row.
func (f *TableFormatter) FormatReport(r *models.Report) (string, error) {
	if r == nil || r.Empty() {
		return "No violations found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "PATH\tRULE\tVALUE")
	}

	for _, v := range r.Violations {
		value := "-"
		if v.Value != nil {
			value = fmt.Sprintf("%v", v.Value)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", v.Path, v.Rule, value)
	}

	_ = w.Flush()
	return buf.String(), nil
}
