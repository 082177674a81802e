package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gradebook/internal/domain"
	"gradebook/internal/repository"
)

// Manager is the in-memory, backend-persisted owner of all gradebook collections
type Manager struct {
	backend repository.Backend
	logger  *slog.Logger

	students *index[string, domain.Student]
	subjects *index[string, domain.Subject]
	records  *index[domain.RecordKey, domain.Record]
}

// LoadStats summarizes a Load
type LoadStats struct {
	Students int
	Subjects int
	Records  int
	Skipped  int
}

// NewManager creates an empty manager; call Load to read persisted state
func NewManager(backend repository.Backend, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		backend:  backend,
		logger:   logger,
		students: newIndex[string, domain.Student](),
		subjects: newIndex[string, domain.Subject](),
		records:  newIndex[domain.RecordKey, domain.Record](),
	}
}

// Load replaces the in-memory state with the backend's collections.
// Undecodable entries are logged and skipped. Later duplicates overwrite
// earlier ones in place.
func (m *Manager) Load(ctx context.Context) (LoadStats, error) {
	var stats LoadStats

	students, err := m.backend.LoadStudents(ctx)
	if err != nil {
		return stats, fmt.Errorf("load students: %w", err)
	}
	subjects, err := m.backend.LoadSubjects(ctx)
	if err != nil {
		return stats, fmt.Errorf("load subjects: %w", err)
	}
	records, err := m.backend.LoadRecords(ctx)
	if err != nil {
		return stats, fmt.Errorf("load records: %w", err)
	}

	studentIx := newIndex[string, domain.Student]()
	for _, s := range students.Items {
		studentIx.put(s.ID, s)
	}
	subjectIx := newIndex[string, domain.Subject]()
	for _, s := range subjects.Items {
		subjectIx.put(s.ID, s)
	}
	recordIx := newIndex[domain.RecordKey, domain.Record]()
	for _, r := range records.Items {
		recordIx.put(r.Key(), r)
	}

	m.warnSkipped("students", students.Skipped)
	m.warnSkipped("subjects", subjects.Skipped)
	m.warnSkipped("records", records.Skipped)

	m.students, m.subjects, m.records = studentIx, subjectIx, recordIx

	stats = LoadStats{
		Students: studentIx.len(),
		Subjects: subjectIx.len(),
		Records:  recordIx.len(),
		Skipped:  len(students.Skipped) + len(subjects.Skipped) + len(records.Skipped),
	}
	m.logger.Info("gradebook loaded",
		"students", stats.Students,
		"subjects", stats.Subjects,
		"records", stats.Records,
		"skipped", stats.Skipped)
	return stats, nil
}

func (m *Manager) warnSkipped(collection string, skipped []error) {
	for _, err := range skipped {
		m.logger.Warn("skipping malformed entry", "collection", collection, "error", err)
	}
}

// AddStudent creates a student and saves the students collection
func (m *Manager) AddStudent(ctx context.Context, id, name, email string, age *int) (domain.Student, error) {
	student := domain.NewStudent(strings.TrimSpace(id), strings.TrimSpace(name), strings.TrimSpace(email), age).Clone()
	if err := student.Validate(); err != nil {
		return domain.Student{}, err
	}
	if m.students.has(student.ID) {
		return domain.Student{}, &domain.DuplicateIDError{Entity: domain.EntityStudent, ID: student.ID}
	}

	prev := m.students.clone()
	m.students.put(student.ID, student)
	if err := m.saveStudents(ctx); err != nil {
		m.students = prev
		return domain.Student{}, fmt.Errorf("add student: %w", err)
	}

	m.logger.Debug("student added", "student_id", student.ID)
	return student.Clone(), nil
}

// AddSubject creates a subject and saves the subjects collection
func (m *Manager) AddSubject(ctx context.Context, id, code, name string, credits *int) (domain.Subject, error) {
	subject := domain.NewSubject(strings.TrimSpace(id), strings.TrimSpace(code), strings.TrimSpace(name), credits).Clone()
	if err := subject.Validate(); err != nil {
		return domain.Subject{}, err
	}
	if m.subjects.has(subject.ID) {
		return domain.Subject{}, &domain.DuplicateIDError{Entity: domain.EntitySubject, ID: subject.ID}
	}

	prev := m.subjects.clone()
	m.subjects.put(subject.ID, subject)
	if err := m.saveSubjects(ctx); err != nil {
		m.subjects = prev
		return domain.Subject{}, fmt.Errorf("add subject: %w", err)
	}

	m.logger.Debug("subject added", "subject_id", subject.ID)
	return subject.Clone(), nil
}

// RemoveStudent deletes a student. Its records stay behind as orphans.
func (m *Manager) RemoveStudent(ctx context.Context, id string) error {
	if !m.students.has(id) {
		return &domain.NotFoundError{Entity: domain.EntityStudent, ID: id}
	}

	prev := m.students.clone()
	m.students.remove(id)
	if err := m.saveStudents(ctx); err != nil {
		m.students = prev
		return fmt.Errorf("remove student: %w", err)
	}

	m.logger.Debug("student removed", "student_id", id)
	return nil
}

// RemoveSubject deletes a subject. Its records stay behind as orphans.
func (m *Manager) RemoveSubject(ctx context.Context, id string) error {
	if !m.subjects.has(id) {
		return &domain.NotFoundError{Entity: domain.EntitySubject, ID: id}
	}

	prev := m.subjects.clone()
	m.subjects.remove(id)
	if err := m.saveSubjects(ctx); err != nil {
		m.subjects = prev
		return fmt.Errorf("remove subject: %w", err)
	}

	m.logger.Debug("subject removed", "subject_id", id)
	return nil
}

// Enroll creates the record for a student in a subject. Enrolling a pair
// that is already enrolled fails with AlreadyEnrolledError; a stored record
// with the flag cleared is re-enrolled in place.
func (m *Manager) Enroll(ctx context.Context, studentID, subjectID string) (domain.Record, error) {
	if !m.students.has(studentID) {
		return domain.Record{}, &domain.NotFoundError{Entity: domain.EntityStudent, ID: studentID}
	}
	if !m.subjects.has(subjectID) {
		return domain.Record{}, &domain.NotFoundError{Entity: domain.EntitySubject, ID: subjectID}
	}

	key := domain.NewRecordKey(studentID, subjectID)
	record, exists := m.records.get(key)
	if exists && record.Enrolled {
		return domain.Record{}, &domain.AlreadyEnrolledError{StudentID: studentID, SubjectID: subjectID}
	}
	if exists {
		record.Enrolled = true
	} else {
		record = domain.NewRecord(studentID, subjectID)
	}

	if err := m.updateRecord(ctx, record); err != nil {
		return domain.Record{}, fmt.Errorf("enroll: %w", err)
	}

	m.logger.Debug("student enrolled", "student_id", studentID, "subject_id", subjectID)
	return record.Clone(), nil
}

// SetGrade overwrites the grade of an existing record
func (m *Manager) SetGrade(ctx context.Context, studentID, subjectID string, grade float64) (domain.Record, error) {
	if err := domain.ValidateGrade(grade); err != nil {
		return domain.Record{}, err
	}
	record, err := m.requireRecord(studentID, subjectID)
	if err != nil {
		return domain.Record{}, err
	}

	record.SetGrade(grade)
	if err := m.updateRecord(ctx, record); err != nil {
		return domain.Record{}, fmt.Errorf("set grade: %w", err)
	}

	m.logger.Debug("grade set", "student_id", studentID, "subject_id", subjectID, "grade", grade)
	return record.Clone(), nil
}

// MarkAttendance adds one attendance mark to an existing record
func (m *Manager) MarkAttendance(ctx context.Context, studentID, subjectID string, present bool) (domain.Record, error) {
	record, err := m.requireRecord(studentID, subjectID)
	if err != nil {
		return domain.Record{}, err
	}

	record.Mark(present)
	if err := m.updateRecord(ctx, record); err != nil {
		return domain.Record{}, fmt.Errorf("mark attendance: %w", err)
	}

	m.logger.Debug("attendance marked",
		"student_id", studentID,
		"subject_id", subjectID,
		"present", present,
		"total", record.Total)
	return record.Clone(), nil
}

func (m *Manager) requireRecord(studentID, subjectID string) (domain.Record, error) {
	key := domain.NewRecordKey(studentID, subjectID)
	record, ok := m.records.get(key)
	if !ok {
		return domain.Record{}, &domain.NotFoundError{Entity: domain.EntityRecord, ID: key.String()}
	}
	return record.Clone(), nil
}

// updateRecord stores record and saves the records collection, restoring
// the previous state when the save fails
func (m *Manager) updateRecord(ctx context.Context, record domain.Record) error {
	prev := m.records.clone()
	m.records.put(record.Key(), record)
	if err := m.saveRecords(ctx); err != nil {
		m.records = prev
		return err
	}
	return nil
}

func (m *Manager) saveStudents(ctx context.Context) error {
	return m.backend.SaveStudents(ctx, m.students.values())
}

func (m *Manager) saveSubjects(ctx context.Context) error {
	return m.backend.SaveSubjects(ctx, m.subjects.values())
}

func (m *Manager) saveRecords(ctx context.Context) error {
	return m.backend.SaveRecords(ctx, m.records.values())
}
