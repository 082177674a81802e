// Package service implements the record-keeping logic of the gradebook.
//
// Manager owns the three in-memory collections (students, subjects and the
// records joining them), enforces identity and reference rules, and persists
// through a repository.Backend.
//
// # Persistence
//
// Every mutating operation saves exactly the one collection it changed. If
// that save fails, the in-memory change is rolled back so memory and storage
// never disagree about a successful operation.
//
// # Orphans
//
// Removing a student or subject does not touch records. Reports keep records
// whose subject is gone and flag them as missing instead of failing.
//
// # Concurrency
//
// A Manager is meant for a single caller. It does no locking.
package service
