package codec

import "gradebook/internal/domain"

// reportDoc is the exported shape of a student report
type reportDoc struct {
	Student      studentDoc `json:"student" yaml:"student"`
	Subjects     []entryDoc `json:"subjects" yaml:"subjects"`
	GradeAverage *float64   `json:"grade_average" yaml:"grade_average"`
}

type studentDoc struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Age   *int   `json:"age" yaml:"age"`
}

type entryDoc struct {
	SubjectID      string        `json:"subject_id" yaml:"subject_id"`
	Code           string        `json:"code,omitempty" yaml:"code,omitempty"`
	Name           string        `json:"name,omitempty" yaml:"name,omitempty"`
	Credits        *int          `json:"credits,omitempty" yaml:"credits,omitempty"`
	MissingSubject bool          `json:"missing_subject,omitempty" yaml:"missing_subject,omitempty"`
	Enrolled       bool          `json:"enrolled" yaml:"enrolled"`
	Grade          *float64      `json:"grade" yaml:"grade"`
	Attendance     attendanceDoc `json:"attendance" yaml:"attendance"`
}

type attendanceDoc struct {
	Present int      `json:"present" yaml:"present"`
	Total   int      `json:"total" yaml:"total"`
	Ratio   *float64 `json:"ratio" yaml:"ratio"`
}

func newReportDoc(r *domain.Report) reportDoc {
	doc := reportDoc{
		Student: studentDoc{
			ID:    r.Student.ID,
			Name:  r.Student.Name,
			Email: r.Student.Email,
			Age:   r.Student.Age,
		},
		Subjects: make([]entryDoc, 0, len(r.Entries)),
	}

	for _, e := range r.Entries {
		ed := entryDoc{
			SubjectID:      e.SubjectID,
			MissingSubject: e.MissingSubject(),
			Enrolled:       e.Record.Enrolled,
			Grade:          e.Record.Grade,
			Attendance: attendanceDoc{
				Present: e.Record.Present,
				Total:   e.Record.Total,
			},
		}
		if e.Subject != nil {
			ed.Code = e.Subject.Code
			ed.Name = e.Subject.Name
			ed.Credits = e.Subject.Credits
		}
		if e.Record.HasAttendance() {
			ratio := e.Record.AttendanceRatio()
			ed.Attendance.Ratio = &ratio
		}
		doc.Subjects = append(doc.Subjects, ed)
	}

	if avg, n := r.GradeAverage(); n > 0 {
		doc.GradeAverage = &avg
	}
	return doc
}
