package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"gradebook/internal/domain"
)

// JSONExporter handles JSON report export
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Format returns the exporter format identifier
func (c *JSONExporter) Format() string {
	return "json"
}

// Export writes the report as indented JSON
func (c *JSONExporter) Export(report *domain.Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(newReportDoc(report)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
