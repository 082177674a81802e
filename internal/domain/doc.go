// Package domain defines the core types of the gradebook record keeper.
//
// This package contains the entities kept by the system and the error taxonomy
// shared by every layer above it.
//
// # Core Types
//
// Student and Subject are identified by caller-supplied identifiers that are
// unique within their own collection.
//
// Record is the join entity between one student and one subject. It carries the
// enrollment flag, an optional grade and an attendance tally. Records are keyed
// by RecordKey, so a pair has at most one record.
//
// Report is the read model assembled for a single student: the student, and one
// entry per record joined with its subject. Records whose subject no longer
// exists are kept in the report and flagged as missing.
//
// # Errors
//
// Every failure surfaced to a caller is one of MalformedRecordError,
// DuplicateIDError, NotFoundError, AlreadyEnrolledError or ValidationError.
// Each matches its sentinel (ErrMalformedRecord, ErrDuplicateID, ...) with
// errors.Is.
//
// # Design Principles
//
// - No I/O and no storage concerns
// - Optional values are pointers, absent is nil and never zero
package domain
