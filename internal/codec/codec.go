// Package codec converts gradebook entities to and from their stored and
// exported forms.
//
// The pipe line codec (Encode*/Decode*) is the only place that knows the
// layout of a stored line; every backend goes through it. Exporters render a
// student report for output.
package codec

import (
	"fmt"
	"io"

	"gradebook/internal/domain"
)

// Exporter renders a student report to a given format
type Exporter interface {
	Export(report *domain.Report, w io.Writer) error
	Format() string
}

// LineCodec bundles the line encoding of one collection
type LineCodec[T any] struct {
	Name   string
	Header string
	Encode func(T) string
	Decode func(string) (T, error)
}

// Collection codecs, one per backing file
var (
	Students = LineCodec[domain.Student]{
		Name:   "students",
		Header: "# id|name|email|age",
		Encode: EncodeStudent,
		Decode: DecodeStudent,
	}
	Subjects = LineCodec[domain.Subject]{
		Name:   "subjects",
		Header: "# id|code|name|credits",
		Encode: EncodeSubject,
		Decode: DecodeSubject,
	}
	Records = LineCodec[domain.Record]{
		Name:   "records",
		Header: "# student_id|subject_id|enrolled|grade|present|total",
		Encode: EncodeRecord,
		Decode: DecodeRecord,
	}
)

// Exporters returns every report exporter
func Exporters() []Exporter {
	return []Exporter{
		NewTextExporter(),
		NewJSONExporter(),
		NewYAMLExporter(),
	}
}

// ExporterFor returns the exporter registered for format
func ExporterFor(format string) (Exporter, error) {
	for _, e := range Exporters() {
		if e.Format() == format {
			return e, nil
		}
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}
