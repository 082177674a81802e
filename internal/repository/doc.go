// Package repository defines the storage contract for the gradebook.
//
// A Backend persists the three collections (students, subjects, records) one
// whole collection at a time. It has no notion of identity or consistency
// between collections; that belongs to the service layer, which keeps the
// collections in memory and hands a full snapshot of one collection to the
// backend after every change.
//
// # Text Files
//
// The textfile implementation is the default. It keeps one pipe-delimited file
// per collection in a data directory and replaces a file atomically on save.
//
// # SQLite
//
// The sqlite implementation stores the same encoded lines in one table per
// collection. Both backends decode through the codec package, so a line that
// fails to decode is reported the same way regardless of where it was stored.
//
// # Malformed Data
//
// Loading never fails because of a bad entry. Entries that cannot be decoded
// are returned in LoadResult.Skipped and the rest of the collection loads.
package repository
