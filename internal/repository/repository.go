package repository

import (
	"context"

	"gradebook/internal/domain"
)

// LoadResult holds a loaded collection in stored order, plus the entries
// that could not be decoded
type LoadResult[T any] struct {
	Items   []T
	Skipped []error
}

// Backend defines the interface for collection persistence
type Backend interface {
	// Load operations
	LoadStudents(ctx context.Context) (LoadResult[domain.Student], error)
	LoadSubjects(ctx context.Context) (LoadResult[domain.Subject], error)
	LoadRecords(ctx context.Context) (LoadResult[domain.Record], error)

	// Save operations replace the whole collection
	SaveStudents(ctx context.Context, students []domain.Student) error
	SaveSubjects(ctx context.Context, subjects []domain.Subject) error
	SaveRecords(ctx context.Context, records []domain.Record) error

	// Close releases resources
	Close() error
}
