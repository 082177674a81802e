package codec

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gradebook/internal/domain"
)

// TextExporter renders a report as an aligned plain-text table
type TextExporter struct{}

// NewTextExporter creates a new text exporter
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Format returns the exporter format identifier
func (c *TextExporter) Format() string {
	return "text"
}

// Export writes the report for a terminal
func (c *TextExporter) Export(report *domain.Report, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Student: %s\n", report.Student); err != nil {
		return err
	}

	if len(report.Entries) == 0 {
		_, err := fmt.Fprintln(w, "No enrollments.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBJECT\tCREDITS\tENROLLED\tGRADE\tATTENDANCE")
	for _, e := range report.Entries {
		credits := "-"
		if e.Subject != nil {
			credits = fmt.Sprint(e.Subject.CreditValue())
		}
		attendance := e.AttendanceText()
		if e.Record.HasAttendance() {
			attendance = fmt.Sprintf("%s (%.1f%%)", attendance, e.AttendancePercent())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.SubjectLabel(), credits, yesNo(e.Record.Enrolled), e.GradeText(), attendance)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if avg, n := report.GradeAverage(); n > 0 {
		if _, err := fmt.Fprintf(w, "Average grade: %.2f over %d subject(s)\n", avg, n); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
