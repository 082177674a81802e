package domain

import "fmt"

// Markers used when a report value is absent
const (
	UngradedMarker       = "ungraded"
	NoAttendanceMarker   = "no data"
	MissingSubjectMarker = "missing subject"
)

// Report is the per-student view joining every record with its subject
type Report struct {
	Student Student       `json:"student" yaml:"student"`
	Entries []ReportEntry `json:"entries" yaml:"entries"`
}

// ReportEntry is one record of the student, joined with its subject
type ReportEntry struct {
	SubjectID string   `json:"subject_id" yaml:"subject_id"`
	Subject   *Subject `json:"subject,omitempty" yaml:"subject,omitempty"`
	Record    Record   `json:"record" yaml:"record"`
}

// NewReportEntry joins a record with its subject, which may be nil
func NewReportEntry(record Record, subject *Subject) ReportEntry {
	return ReportEntry{
		SubjectID: record.SubjectID,
		Subject:   subject,
		Record:    record,
	}
}

// MissingSubject reports whether the record points at a subject that no longer exists
func (e ReportEntry) MissingSubject() bool {
	return e.Subject == nil
}

// SubjectLabel returns "CODE - Name", or the missing marker for orphans
func (e ReportEntry) SubjectLabel() string {
	if e.Subject == nil {
		return fmt.Sprintf("%s (%s)", e.SubjectID, MissingSubjectMarker)
	}
	return fmt.Sprintf("%s - %s", e.Subject.Code, e.Subject.Name)
}

// GradeText returns the grade, or UngradedMarker
func (e ReportEntry) GradeText() string {
	if e.Record.Grade == nil {
		return UngradedMarker
	}
	return FormatGrade(*e.Record.Grade)
}

// AttendanceText returns "present/total", or NoAttendanceMarker when nothing was marked
func (e ReportEntry) AttendanceText() string {
	if e.Record.Total == 0 {
		return NoAttendanceMarker
	}
	return fmt.Sprintf("%d/%d", e.Record.Present, e.Record.Total)
}

// AttendancePercent returns the attendance as a percentage
func (e ReportEntry) AttendancePercent() float64 {
	return e.Record.AttendanceRatio() * 100
}

// GradeAverage returns the mean of the assigned grades and how many there were
func (r *Report) GradeAverage() (float64, int) {
	var sum float64
	n := 0
	for _, e := range r.Entries {
		if e.Record.Grade != nil {
			sum += *e.Record.Grade
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}
