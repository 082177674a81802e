// Package loader reads and writes YAML rosters: bulk lists of students,
// subjects and enrollments used to seed or snapshot a gradebook.
package loader

import (
	"fmt"
	"os"

	"gradebook/internal/domain"

	"gopkg.in/yaml.v3"
)

// RosterVersion is written into exported rosters
const RosterVersion = "1"

// RosterYAML represents the YAML file structure
type RosterYAML struct {
	Version     string           `yaml:"version"`
	Students    []StudentYAML    `yaml:"students,omitempty"`
	Subjects    []SubjectYAML    `yaml:"subjects,omitempty"`
	Enrollments []EnrollmentYAML `yaml:"enrollments,omitempty"`
}

// StudentYAML represents a student in YAML format
type StudentYAML struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Age   *int   `yaml:"age,omitempty"`
}

// SubjectYAML represents a subject in YAML format
type SubjectYAML struct {
	ID      string `yaml:"id"`
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Credits *int   `yaml:"credits,omitempty"`
}

// EnrollmentYAML represents an enrollment, optionally graded
type EnrollmentYAML struct {
	Student string   `yaml:"student"`
	Subject string   `yaml:"subject"`
	Grade   *float64 `yaml:"grade,omitempty"`
}

// Roster is a parsed roster in domain terms
type Roster struct {
	Students    []domain.Student
	Subjects    []domain.Subject
	Enrollments []Enrollment
}

// Enrollment pairs a student with a subject and an optional grade
type Enrollment struct {
	StudentID string
	SubjectID string
	Grade     *float64
}

// Len returns the number of entries in the roster
func (r *Roster) Len() int {
	return len(r.Students) + len(r.Subjects) + len(r.Enrollments)
}

// LoadRoster loads a roster from a YAML file
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseRoster(data)
}

// ParseRoster parses a roster from YAML bytes. Entries are not validated
// here; the manager validates them as they are added.
func ParseRoster(data []byte) (*Roster, error) {
	var y RosterYAML
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if y.Version != "" && y.Version != RosterVersion {
		return nil, fmt.Errorf("unsupported roster version %q", y.Version)
	}

	roster := &Roster{}
	for _, s := range y.Students {
		roster.Students = append(roster.Students, domain.NewStudent(s.ID, s.Name, s.Email, s.Age))
	}
	for _, s := range y.Subjects {
		roster.Subjects = append(roster.Subjects, domain.NewSubject(s.ID, s.Code, s.Name, s.Credits))
	}
	for i, e := range y.Enrollments {
		if e.Student == "" || e.Subject == "" {
			return nil, fmt.Errorf("enrollment %d: student and subject are required", i+1)
		}
		roster.Enrollments = append(roster.Enrollments, Enrollment{
			StudentID: e.Student,
			SubjectID: e.Subject,
			Grade:     e.Grade,
		})
	}
	return roster, nil
}

// ExportRoster renders students, subjects and enrolled records as a roster.
// Attendance counts are not part of a roster and are left out.
func ExportRoster(students []domain.Student, subjects []domain.Subject, records []domain.Record) ([]byte, error) {
	y := RosterYAML{Version: RosterVersion}

	for _, s := range students {
		y.Students = append(y.Students, StudentYAML{
			ID:    s.ID,
			Name:  s.Name,
			Email: s.Email,
			Age:   s.Age,
		})
	}
	for _, s := range subjects {
		y.Subjects = append(y.Subjects, SubjectYAML{
			ID:      s.ID,
			Code:    s.Code,
			Name:    s.Name,
			Credits: s.Credits,
		})
	}
	for _, r := range records {
		if !r.Enrolled {
			continue
		}
		y.Enrollments = append(y.Enrollments, EnrollmentYAML{
			Student: r.StudentID,
			Subject: r.SubjectID,
			Grade:   r.Grade,
		})
	}

	data, err := yaml.Marshal(&y)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return data, nil
}
