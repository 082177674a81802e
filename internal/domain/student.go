package domain

import "fmt"

// Student is a person kept in the gradebook
type Student struct {
	ID    string `json:"id" yaml:"id" validate:"required,ident"`
	Name  string `json:"name" yaml:"name" validate:"required,nodelim"`
	Email string `json:"email" yaml:"email" validate:"required,nodelim"`
	Age   *int   `json:"age,omitempty" yaml:"age,omitempty" validate:"omitempty,gte=0"`
}

// NewStudent creates a student; age may be nil
func NewStudent(id, name, email string, age *int) Student {
	return Student{
		ID:    id,
		Name:  name,
		Email: email,
		Age:   age,
	}
}

// Clone returns a copy that shares no memory with s
func (s Student) Clone() Student {
	s.Age = cloneInt(s.Age)
	return s
}

// HasAge reports whether the age is known
func (s Student) HasAge() bool {
	return s.Age != nil
}

func (s Student) String() string {
	if s.Age != nil {
		return fmt.Sprintf("ID: %s, Name: %s, Email: %s, Age: %d", s.ID, s.Name, s.Email, *s.Age)
	}
	return fmt.Sprintf("ID: %s, Name: %s, Email: %s", s.ID, s.Name, s.Email)
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
