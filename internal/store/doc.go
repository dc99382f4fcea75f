// Package store executes rendered statements over database/sql and maps
// rows into a record.Context.
//
// The store owns no SQL dialect logic: statements are built with package
// query and rendered for the dialect.Strategy the store was opened with,
// and all vendor questions (existence probes, column types, error codes)
// are delegated to that strategy.
//
// # Records
//
//   - Load runs a select and materializes each row by id, so repeated loads
//     return the same instances.
//   - Persist inserts unpersisted records and updates only the dirty
//     attributes of persisted ones. Reference ids are bound when the
//     statement executes, so a statement may be built before the referenced
//     record has an id.
//   - ListSource backs inverse lists with a paged cursor. Pages are fetched
//     on demand and no connection is held between pages.
//
// # SQLite
//
// Opening with the "sqlite3" driver limits the pool to one connection (which
// also keeps a ":memory:" database alive) and applies:
//
//   - journal_mode=WAL
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
