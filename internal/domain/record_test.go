package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	r := NewRecord("S001", "SUB001")

	assert.Equal(t, RecordKey{StudentID: "S001", SubjectID: "SUB001"}, r.Key())
	assert.True(t, r.Enrolled)
	assert.False(t, r.HasGrade())
	assert.False(t, r.HasAttendance())
	assert.Zero(t, r.Present)
	assert.Zero(t, r.Total)
}

func TestRecordSetGradeOverwrites(t *testing.T) {
	r := NewRecord("S001", "SUB001")

	r.SetGrade(70)
	r.SetGrade(85)

	require.True(t, r.HasGrade())
	assert.Equal(t, 85.0, *r.Grade)
}

func TestRecordSetGradeDoesNotAlias(t *testing.T) {
	a := NewRecord("S001", "SUB001")
	a.SetGrade(50)
	b := a
	b.SetGrade(60)

	// the copy shares the pointer until SetGrade replaces it
	assert.Equal(t, 50.0, *a.Grade)
	assert.Equal(t, 60.0, *b.Grade)
}

func TestRecordMark(t *testing.T) {
	tests := []struct {
		name    string
		marks   []bool
		present int
		total   int
	}{
		{"no marks", nil, 0, 0},
		{"single present", []bool{true}, 1, 1},
		{"single absent", []bool{false}, 0, 1},
		{"mixed", []bool{true, false, true, false, false}, 2, 5},
		{"all present", []bool{true, true, true}, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord("S", "X")
			for _, p := range tt.marks {
				r.Mark(p)
			}
			assert.Equal(t, tt.present, r.Present)
			assert.Equal(t, tt.total, r.Total)
			assert.NoError(t, r.Check())
		})
	}
}

func TestRecordAttendanceRatio(t *testing.T) {
	r := NewRecord("S", "X")
	assert.Equal(t, 0.0, r.AttendanceRatio())

	r.Mark(true)
	r.Mark(false)
	assert.InDelta(t, 0.5, r.AttendanceRatio(), 1e-9)
}

func TestRecordCheck(t *testing.T) {
	grade := func(g float64) *float64 { return &g }

	tests := []struct {
		name    string
		record  Record
		wantErr bool
	}{
		{"zero value", Record{}, false},
		{"grade at lower bound", Record{Grade: grade(0)}, false},
		{"grade at upper bound", Record{Grade: grade(100)}, false},
		{"grade below range", Record{Grade: grade(-1)}, true},
		{"grade above range", Record{Grade: grade(101)}, true},
		{"grade NaN", Record{Grade: grade(math.NaN())}, true},
		{"present exceeds total", Record{Present: 3, Total: 2}, true},
		{"negative present", Record{Present: -1, Total: 2}, true},
		{"negative total", Record{Total: -1}, true},
		{"present equals total", Record{Present: 2, Total: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Check()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatGrade(t *testing.T) {
	assert.Equal(t, "85", FormatGrade(85))
	assert.Equal(t, "72.5", FormatGrade(72.5))
	assert.Equal(t, "0", FormatGrade(0))
	assert.Equal(t, "99.125", FormatGrade(99.125))
}

func TestRecordClone(t *testing.T) {
	r := NewRecord("S001", "SUB001")
	r.SetGrade(70)

	c := r.Clone()
	*c.Grade = 99

	assert.Equal(t, 70.0, *r.Grade)
	assert.Equal(t, r.Key(), c.Key())

	bare := NewRecord("S", "X").Clone()
	assert.Nil(t, bare.Grade)
}
