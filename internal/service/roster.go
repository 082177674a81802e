package service

import (
	"context"
	"errors"
	"fmt"

	"gradebook/internal/domain"
	"gradebook/internal/loader"
)

// ImportResult contains the outcome of a roster import
type ImportResult struct {
	StudentsAdded int     `json:"students_added"`
	SubjectsAdded int     `json:"subjects_added"`
	Enrolled      int     `json:"enrolled"`
	Graded        int     `json:"graded"`
	Skipped       []error `json:"-"`
}

// Import adds every roster entry through the regular operations, so each
// entry is validated and saved like an interactive edit. Entries rejected by
// the gradebook rules are collected in Skipped; storage errors stop the import.
func (m *Manager) Import(ctx context.Context, roster *loader.Roster) (*ImportResult, error) {
	result := &ImportResult{}

	for _, s := range roster.Students {
		_, err := m.AddStudent(ctx, s.ID, s.Name, s.Email, s.Age)
		if err := result.track(err, &result.StudentsAdded); err != nil {
			return result, fmt.Errorf("import students: %w", err)
		}
	}
	for _, s := range roster.Subjects {
		_, err := m.AddSubject(ctx, s.ID, s.Code, s.Name, s.Credits)
		if err := result.track(err, &result.SubjectsAdded); err != nil {
			return result, fmt.Errorf("import subjects: %w", err)
		}
	}
	for _, e := range roster.Enrollments {
		_, err := m.Enroll(ctx, e.StudentID, e.SubjectID)
		switch {
		case err == nil:
			result.Enrolled++
		case errors.Is(err, domain.ErrAlreadyEnrolled):
			// the grade still applies to the existing enrollment
		case isRuleError(err):
			result.Skipped = append(result.Skipped, err)
			continue
		default:
			return result, fmt.Errorf("import enrollments: %w", err)
		}

		if e.Grade == nil {
			continue
		}
		_, err = m.SetGrade(ctx, e.StudentID, e.SubjectID, *e.Grade)
		if err := result.track(err, &result.Graded); err != nil {
			return result, fmt.Errorf("import grades: %w", err)
		}
	}

	m.logger.Info("roster imported",
		"students", result.StudentsAdded,
		"subjects", result.SubjectsAdded,
		"enrolled", result.Enrolled,
		"graded", result.Graded,
		"skipped", len(result.Skipped))
	return result, nil
}

// track counts a success, records a rule violation as skipped, and returns
// anything else
func (r *ImportResult) track(err error, counter *int) error {
	switch {
	case err == nil:
		*counter++
		return nil
	case isRuleError(err):
		r.Skipped = append(r.Skipped, err)
		return nil
	default:
		return err
	}
}

func isRuleError(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrDuplicateID) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrAlreadyEnrolled)
}

// ExportRoster snapshots students, subjects and enrollments as a YAML roster
func (m *Manager) ExportRoster() ([]byte, error) {
	return loader.ExportRoster(m.ListStudents(), m.ListSubjects(), m.ListRecords())
}
