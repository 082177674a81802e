package domain

import "fmt"

// Subject is a course students can enroll in
type Subject struct {
	ID      string `json:"id" yaml:"id" validate:"required,ident"`
	Code    string `json:"code" yaml:"code" validate:"required,nodelim"`
	Name    string `json:"name" yaml:"name" validate:"required,nodelim"`
	Credits *int   `json:"credits,omitempty" yaml:"credits,omitempty" validate:"omitempty,gte=0"`
}

// NewSubject creates a subject; credits may be nil
func NewSubject(id, code, name string, credits *int) Subject {
	return Subject{
		ID:      id,
		Code:    code,
		Name:    name,
		Credits: credits,
	}
}

// Clone returns a copy that shares no memory with s
func (s Subject) Clone() Subject {
	s.Credits = cloneInt(s.Credits)
	return s
}

// CreditValue returns the credits, or 0 when unset
func (s Subject) CreditValue() int {
	if s.Credits == nil {
		return 0
	}
	return *s.Credits
}

func (s Subject) String() string {
	return fmt.Sprintf("ID: %s, Code: %s, Name: %s, Credits: %d", s.ID, s.Code, s.Name, s.CreditValue())
}
