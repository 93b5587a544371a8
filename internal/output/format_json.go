package output

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/simulation"
)

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty      bool // If true, format with indentation
	IncludeRuns bool // If true, every run's snapshots are included
}

// Format generates JSON output for res. NaN and infinite capitals cannot be
// encoded and produce an error.
func (jf *JSONFormatter) Format(res *simulation.Result) (string, error) {
	report := NewReport(res, jf.IncludeRuns)

	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}

	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}

	return string(data), nil
}

// YAMLFormatter formats results as YAML. Runs are never included.
type YAMLFormatter struct{}

// Format generates YAML output for res.
func (yf *YAMLFormatter) Format(res *simulation.Result) (string, error) {
	data, err := yaml.Marshal(NewReport(res, false))
	if err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return string(data), nil
}
