package output

import (
	"encoding/json"
	"fmt"

	"github.com/Ferroin/fvirt/models"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct{}

// FormatReport formats the report as a JSON array of violations.
func (f *JSONFormatter) FormatReport(r *models.Report) (string, error) {
	if r == nil || r.Empty() {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(viewsOf(r), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
