package codec

import (
	"fmt"
	"strconv"
	"strings"

	"gradebook/internal/domain"
)

const (
	// Delimiter separates the fields of a stored line
	Delimiter = "|"
	// EmptyMarker stands for an absent optional field
	EmptyMarker = "-"
)

const (
	studentFields = 4
	subjectFields = 4
	recordFields  = 6
)

// EncodeStudent renders a student as id|name|email|age
func EncodeStudent(s domain.Student) string {
	return join(s.ID, s.Name, s.Email, encodeOptionalInt(s.Age))
}

// DecodeStudent parses a line written by EncodeStudent
func DecodeStudent(line string) (domain.Student, error) {
	fields, err := split(line, studentFields)
	if err != nil {
		return domain.Student{}, err
	}
	if fields[0] == "" {
		return domain.Student{}, malformed(line, "empty student id", nil)
	}
	age, err := decodeOptionalInt(fields[3])
	if err != nil {
		return domain.Student{}, malformed(line, "age", err)
	}
	return domain.NewStudent(fields[0], fields[1], fields[2], age), nil
}

// EncodeSubject renders a subject as id|code|name|credits
func EncodeSubject(s domain.Subject) string {
	return join(s.ID, s.Code, s.Name, encodeOptionalInt(s.Credits))
}

// DecodeSubject parses a line written by EncodeSubject
func DecodeSubject(line string) (domain.Subject, error) {
	fields, err := split(line, subjectFields)
	if err != nil {
		return domain.Subject{}, err
	}
	if fields[0] == "" {
		return domain.Subject{}, malformed(line, "empty subject id", nil)
	}
	credits, err := decodeOptionalInt(fields[3])
	if err != nil {
		return domain.Subject{}, malformed(line, "credits", err)
	}
	return domain.NewSubject(fields[0], fields[1], fields[2], credits), nil
}

// EncodeRecord renders a record as studentId|subjectId|y/n|grade|present|total
func EncodeRecord(r domain.Record) string {
	enrolled := "n"
	if r.Enrolled {
		enrolled = "y"
	}
	grade := EmptyMarker
	if r.Grade != nil {
		grade = domain.FormatGrade(*r.Grade)
	}
	return join(
		r.StudentID,
		r.SubjectID,
		enrolled,
		grade,
		strconv.Itoa(r.Present),
		strconv.Itoa(r.Total),
	)
}

// DecodeRecord parses a line written by EncodeRecord
func DecodeRecord(line string) (domain.Record, error) {
	fields, err := split(line, recordFields)
	if err != nil {
		return domain.Record{}, err
	}
	if fields[0] == "" || fields[1] == "" {
		return domain.Record{}, malformed(line, "empty record key", nil)
	}

	r := domain.Record{RecordKey: domain.NewRecordKey(fields[0], fields[1])}

	switch fields[2] {
	case "y":
		r.Enrolled = true
	case "n":
		r.Enrolled = false
	default:
		return domain.Record{}, malformed(line, fmt.Sprintf("enrolled flag %q", fields[2]), nil)
	}

	if !isEmpty(fields[3]) {
		g, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return domain.Record{}, malformed(line, "grade", err)
		}
		r.Grade = &g
	}

	if r.Present, err = decodeCount(fields[4]); err != nil {
		return domain.Record{}, malformed(line, "present count", err)
	}
	if r.Total, err = decodeCount(fields[5]); err != nil {
		return domain.Record{}, malformed(line, "total count", err)
	}

	if err := r.Check(); err != nil {
		return domain.Record{}, malformed(line, "record invariants", err)
	}
	return r, nil
}

func join(fields ...string) string {
	return strings.Join(fields, Delimiter)
}

// split cuts a line into exactly n trimmed fields
func split(line string, n int) ([]string, error) {
	trimmed := strings.TrimRight(line, "\r\n")
	fields := strings.Split(trimmed, Delimiter)
	if len(fields) != n {
		return nil, malformed(line, fmt.Sprintf("expected %d fields, got %d", n, len(fields)), nil)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

func malformed(line, reason string, err error) *domain.MalformedRecordError {
	return &domain.MalformedRecordError{
		Line:   strings.TrimRight(line, "\r\n"),
		Reason: reason,
		Err:    err,
	}
}

// isEmpty treats a bare blank field like the marker so hand-edited files still load
func isEmpty(field string) bool {
	return field == EmptyMarker || field == ""
}

func encodeOptionalInt(v *int) string {
	if v == nil {
		return EmptyMarker
	}
	return strconv.Itoa(*v)
}

func decodeOptionalInt(field string) (*int, error) {
	if isEmpty(field) {
		return nil, nil
	}
	n, err := decodeCount(field)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func decodeCount(field string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
