package domain

import (
	"fmt"
	"strconv"
)

// Grade bounds, inclusive
const (
	MinGrade = 0.0
	MaxGrade = 100.0
)

// RecordKey identifies the record of one student in one subject
type RecordKey struct {
	StudentID string `json:"student_id" yaml:"student_id"`
	SubjectID string `json:"subject_id" yaml:"subject_id"`
}

// NewRecordKey builds a key from its two identifiers
func NewRecordKey(studentID, subjectID string) RecordKey {
	return RecordKey{StudentID: studentID, SubjectID: subjectID}
}

func (k RecordKey) String() string {
	return k.StudentID + "/" + k.SubjectID
}

// Record tracks enrollment, grade and attendance of one student in one subject
type Record struct {
	RecordKey
	Enrolled bool     `json:"enrolled" yaml:"enrolled"`
	Grade    *float64 `json:"grade,omitempty" yaml:"grade,omitempty"`
	Present  int      `json:"present" yaml:"present"`
	Total    int      `json:"total" yaml:"total"`
}

// NewRecord creates an enrolled record with no grade and no attendance
func NewRecord(studentID, subjectID string) Record {
	return Record{
		RecordKey: NewRecordKey(studentID, subjectID),
		Enrolled:  true,
	}
}

// Key returns the identity of the record
func (r Record) Key() RecordKey {
	return r.RecordKey
}

// Clone returns a copy that shares no memory with r
func (r Record) Clone() Record {
	if r.Grade != nil {
		g := *r.Grade
		r.Grade = &g
	}
	return r
}

// HasGrade reports whether a grade was assigned
func (r Record) HasGrade() bool {
	return r.Grade != nil
}

// SetGrade overwrites the grade
func (r *Record) SetGrade(grade float64) {
	g := grade
	r.Grade = &g
}

// Mark adds one attendance mark
func (r *Record) Mark(present bool) {
	r.Total++
	if present {
		r.Present++
	}
}

// HasAttendance reports whether any attendance mark exists
func (r Record) HasAttendance() bool {
	return r.Total > 0
}

// AttendanceRatio returns present/total, or 0 with no marks
func (r Record) AttendanceRatio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Present) / float64(r.Total)
}

// Check verifies the invariants of the record's facets
func (r Record) Check() error {
	if r.Grade != nil && !ValidGrade(*r.Grade) {
		return &ValidationError{Field: "grade", Rule: "range", Value: FormatGrade(*r.Grade)}
	}
	if r.Present < 0 {
		return &ValidationError{Field: "present", Rule: "gte=0", Value: strconv.Itoa(r.Present)}
	}
	if r.Total < 0 {
		return &ValidationError{Field: "total", Rule: "gte=0", Value: strconv.Itoa(r.Total)}
	}
	if r.Present > r.Total {
		return &ValidationError{
			Field: "present",
			Rule:  "ltefield=total",
			Value: fmt.Sprintf("%d/%d", r.Present, r.Total),
		}
	}
	return nil
}

// ValidGrade reports whether g is a number within [MinGrade, MaxGrade]
func ValidGrade(g float64) bool {
	return g >= MinGrade && g <= MaxGrade
}

// FormatGrade renders a grade in its shortest exact decimal form
func FormatGrade(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}
