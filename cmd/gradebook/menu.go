package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gradebook/internal/codec"
	"gradebook/internal/domain"
	"gradebook/internal/service"
)

const menuText = `
=== Gradebook ===
1. Add student
2. Add subject
3. Enroll student in subject
4. Set grade
5. Mark attendance
6. View student report
7. List students
8. List subjects
9. Exit`

// menu drives the interactive loop over a Manager
type menu struct {
	mgr *service.Manager
	in  *bufio.Reader
	out io.Writer
}

func newMenu(mgr *service.Manager, in io.Reader, out io.Writer) *menu {
	return &menu{
		mgr: mgr,
		in:  bufio.NewReader(in),
		out: out,
	}
}

// run shows the menu until the user exits or input ends. Operation errors
// are printed and the loop continues.
func (m *menu) run(ctx context.Context) error {
	actions := map[string]func(context.Context) error{
		"1": m.addStudent,
		"2": m.addSubject,
		"3": m.enroll,
		"4": m.setGrade,
		"5": m.markAttendance,
		"6": m.viewReport,
		"7": m.listStudents,
		"8": m.listSubjects,
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprintln(m.out, menuText)
		choice, err := m.prompt("Choose an option: ")
		if err != nil {
			return endOfInput(err)
		}
		if choice == "9" {
			fmt.Fprintln(m.out, "Goodbye.")
			return nil
		}

		action, ok := actions[choice]
		if !ok {
			fmt.Fprintln(m.out, "Invalid option, choose 1-9.")
			continue
		}
		if err := action(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func (m *menu) addStudent(ctx context.Context) error {
	id, err := m.prompt("Student ID (blank to generate): ")
	if err != nil {
		return err
	}
	if id == "" {
		id = newID(studentIDPrefix)
	}
	name, err := m.prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := m.prompt("Email: ")
	if err != nil {
		return err
	}
	ageText, err := m.prompt("Age (optional): ")
	if err != nil {
		return err
	}
	age, err := parseOptionalInt("age", ageText)
	if err != nil {
		return err
	}

	student, err := m.mgr.AddStudent(ctx, id, name, email, age)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Added student %s.\n", student.ID)
	return nil
}

func (m *menu) addSubject(ctx context.Context) error {
	id, err := m.prompt("Subject ID (blank to generate): ")
	if err != nil {
		return err
	}
	if id == "" {
		id = newID(subjectIDPrefix)
	}
	code, err := m.prompt("Code: ")
	if err != nil {
		return err
	}
	name, err := m.prompt("Name: ")
	if err != nil {
		return err
	}
	creditsText, err := m.prompt("Credits (optional): ")
	if err != nil {
		return err
	}
	credits, err := parseOptionalInt("credits", creditsText)
	if err != nil {
		return err
	}

	subject, err := m.mgr.AddSubject(ctx, id, code, name, credits)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Added subject %s.\n", subject.ID)
	return nil
}

func (m *menu) enroll(ctx context.Context) error {
	studentID, subjectID, err := m.promptPair()
	if err != nil {
		return err
	}
	if _, err := m.mgr.Enroll(ctx, studentID, subjectID); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Enrolled %s in %s.\n", studentID, subjectID)
	return nil
}

func (m *menu) setGrade(ctx context.Context) error {
	studentID, subjectID, err := m.promptPair()
	if err != nil {
		return err
	}
	gradeText, err := m.prompt("Grade (0-100): ")
	if err != nil {
		return err
	}
	grade, err := parseGrade(gradeText)
	if err != nil {
		return err
	}

	record, err := m.mgr.SetGrade(ctx, studentID, subjectID, grade)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Grade for %s set to %s.\n", record.Key(), domain.FormatGrade(*record.Grade))
	return nil
}

func (m *menu) markAttendance(ctx context.Context) error {
	studentID, subjectID, err := m.promptPair()
	if err != nil {
		return err
	}
	answer, err := m.prompt("Present? (y/n): ")
	if err != nil {
		return err
	}
	present, err := parseYesNo(answer)
	if err != nil {
		return err
	}

	record, err := m.mgr.MarkAttendance(ctx, studentID, subjectID, present)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Attendance for %s: %d/%d.\n", record.Key(), record.Present, record.Total)
	return nil
}

func (m *menu) viewReport(ctx context.Context) error {
	studentID, err := m.prompt("Student ID: ")
	if err != nil {
		return err
	}
	report, err := m.mgr.StudentReport(studentID)
	if err != nil {
		return err
	}
	return codec.NewTextExporter().Export(report, m.out)
}

func (m *menu) listStudents(ctx context.Context) error {
	students := m.mgr.ListStudents()
	if len(students) == 0 {
		fmt.Fprintln(m.out, "No students.")
		return nil
	}

	tw := tabwriter.NewWriter(m.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tAGE")
	for _, s := range students {
		age := "-"
		if s.HasAge() {
			age = fmt.Sprint(*s.Age)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Email, age)
	}
	return tw.Flush()
}

func (m *menu) listSubjects(ctx context.Context) error {
	subjects := m.mgr.ListSubjects()
	if len(subjects) == 0 {
		fmt.Fprintln(m.out, "No subjects.")
		return nil
	}

	tw := tabwriter.NewWriter(m.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tCREDITS")
	for _, s := range subjects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.ID, s.Code, s.Name, s.CreditValue())
	}
	return tw.Flush()
}

func (m *menu) promptPair() (string, string, error) {
	studentID, err := m.prompt("Student ID: ")
	if err != nil {
		return "", "", err
	}
	subjectID, err := m.prompt("Subject ID: ")
	if err != nil {
		return "", "", err
	}
	return studentID, subjectID, nil
}

// prompt prints label and returns the next trimmed input line. A final line
// without a newline is still returned; io.EOF comes only once input is empty.
func (m *menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
