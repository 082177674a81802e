package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentValidate(t *testing.T) {
	age := func(n int) *int { return &n }

	tests := []struct {
		name    string
		student Student
		field   string
	}{
		{"valid", NewStudent("S001", "John Doe", "john@x.com", age(20)), ""},
		{"valid without age", NewStudent("S001", "John Doe", "john@x.com", nil), ""},
		{"zero age", NewStudent("S001", "John Doe", "john@x.com", age(0)), ""},
		{"missing id", NewStudent("", "John Doe", "john@x.com", nil), "id"},
		{"missing name", NewStudent("S001", "", "john@x.com", nil), "name"},
		{"missing email", NewStudent("S001", "John Doe", "", nil), "email"},
		{"negative age", NewStudent("S001", "John Doe", "john@x.com", age(-1)), "age"},
		{"pipe in name", NewStudent("S001", "John|Doe", "john@x.com", nil), "name"},
		{"newline in email", NewStudent("S001", "John", "john@x.com\n", nil), "email"},
		{"comment-like id", NewStudent("#S001", "John", "john@x.com", nil), "id"},
		{"padded id", NewStudent(" S001", "John", "john@x.com", nil), "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.student.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSubjectValidate(t *testing.T) {
	credits := func(n int) *int { return &n }

	assert.NoError(t, NewSubject("SUB001", "CS101", "Intro CS", credits(3)).Validate())
	assert.NoError(t, NewSubject("SUB001", "CS101", "Intro CS", nil).Validate())
	assert.ErrorIs(t, NewSubject("SUB001", "", "Intro CS", nil).Validate(), ErrValidation)
	assert.ErrorIs(t, NewSubject("SUB001", "CS101", "Intro CS", credits(-2)).Validate(), ErrValidation)
	assert.ErrorIs(t, NewSubject("SUB|001", "CS101", "Intro CS", nil).Validate(), ErrValidation)
}

func TestValidateGrade(t *testing.T) {
	tests := []struct {
		grade float64
		ok    bool
	}{
		{-1, false},
		{-0.5, false},
		{0, true},
		{50.5, true},
		{100, true},
		{100.01, false},
		{101, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}

	for _, tt := range tests {
		err := ValidateGrade(tt.grade)
		if tt.ok {
			assert.NoError(t, err, "grade %v", tt.grade)
		} else {
			assert.ErrorIs(t, err, ErrValidation, "grade %v", tt.grade)
		}
	}
}
