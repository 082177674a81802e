package service

import "gradebook/internal/domain"

// Lookups and lists hand out clones so callers cannot change stored state
// without going through a saving operation.

// Student returns the student with id
func (m *Manager) Student(id string) (domain.Student, bool) {
	s, ok := m.students.get(id)
	return s.Clone(), ok
}

// Subject returns the subject with id
func (m *Manager) Subject(id string) (domain.Subject, bool) {
	s, ok := m.subjects.get(id)
	return s.Clone(), ok
}

// Record returns the record of a student in a subject
func (m *Manager) Record(studentID, subjectID string) (domain.Record, bool) {
	r, ok := m.records.get(domain.NewRecordKey(studentID, subjectID))
	if !ok {
		return domain.Record{}, false
	}
	return r.Clone(), true
}

// ListStudents returns all students in insertion order
func (m *Manager) ListStudents() []domain.Student {
	students := m.students.values()
	for i := range students {
		students[i] = students[i].Clone()
	}
	return students
}

// ListSubjects returns all subjects in insertion order
func (m *Manager) ListSubjects() []domain.Subject {
	subjects := m.subjects.values()
	for i := range subjects {
		subjects[i] = subjects[i].Clone()
	}
	return subjects
}

// ListRecords returns all records in insertion order
func (m *Manager) ListRecords() []domain.Record {
	records := m.records.values()
	for i := range records {
		records[i] = records[i].Clone()
	}
	return records
}

// StudentRecords returns the records of one student in insertion order
func (m *Manager) StudentRecords(studentID string) []domain.Record {
	var out []domain.Record
	for _, r := range m.records.values() {
		if r.StudentID == studentID {
			out = append(out, r.Clone())
		}
	}
	return out
}

// StudentReport joins every record of a student with its subject. Records
// whose subject no longer exists are kept with a nil subject.
func (m *Manager) StudentReport(studentID string) (*domain.Report, error) {
	student, ok := m.Student(studentID)
	if !ok {
		return nil, &domain.NotFoundError{Entity: domain.EntityStudent, ID: studentID}
	}

	report := &domain.Report{
		Student: student,
		Entries: make([]domain.ReportEntry, 0),
	}
	for _, r := range m.StudentRecords(studentID) {
		var subject *domain.Subject
		if s, ok := m.Subject(r.SubjectID); ok {
			subject = &s
		} else {
			m.logger.Debug("report references missing subject", "student_id", studentID, "subject_id", r.SubjectID)
		}
		report.Entries = append(report.Entries, domain.NewReportEntry(r, subject))
	}
	return report, nil
}
