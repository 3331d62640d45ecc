package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Ferroin/fvirt/models"
)

// YAMLFormatter formats reports as YAML.
type YAMLFormatter struct{}

// FormatReport formats the report as a YAML list of violations.
func (f *YAMLFormatter) FormatReport(r *models.Report) (string, error) {
	if r == nil || r.Empty() {
		return "", nil
	}

	data, err := yaml.Marshal(viewsOf(r))
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to YAML: %w", err)
	}

	return string(data), nil
}
