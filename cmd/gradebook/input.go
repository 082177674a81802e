package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"gradebook/internal/codec"
	"gradebook/internal/domain"
)

const (
	studentIDPrefix = "S"
	subjectIDPrefix = "SUB"
)

// newID returns prefix plus the first eight hex digits of a random UUID
func newID(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

// parseOptionalInt reads a non-negative whole number; blank or "-" means absent
func parseOptionalInt(field, s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == codec.EmptyMarker {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Rule: "number", Value: s}
	}
	if n < 0 {
		return nil, &domain.ValidationError{Field: field, Rule: "gte=0", Value: s}
	}
	return &n, nil
}

// parseGrade reads a grade; range checking is left to the manager
func parseGrade(s string) (float64, error) {
	s = strings.TrimSpace(s)
	g, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(g) || math.IsInf(g, 0) {
		return 0, &domain.ValidationError{Field: "grade", Rule: "number", Value: s}
	}
	return g, nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, &domain.ValidationError{Field: "present", Rule: "oneof=y n", Value: s}
	}
}
