package codec

import (
	"fmt"
	"io"

	"gradebook/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLExporter handles YAML report export
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Format returns the exporter format identifier
func (c *YAMLExporter) Format() string {
	return "yaml"
}

// Export writes the report as YAML
func (c *YAMLExporter) Export(report *domain.Report, w io.Writer) error {
	doc := newReportDoc(report)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
