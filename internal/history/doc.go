// Package history keeps the run ledger in SQLite.
//
// Every pipeline run is recorded when it begins and updated when it finishes,
// with its status, timeline length, rendered artifacts, upload IDs and the
// warnings collected along the way. The CLI reads it back for the history
// command.
//
// The database is small and local. Schema changes bump schemaVersion; an
// older database is rejected with ErrSchemaMismatch and can simply be deleted.
package history
