// Package dialect is the vendor strategy bundle: one Strategy per supported
// database product, each answering a fixed set of narrow questions.
//
//   - identifiers: case folding, length cap, quoting
//   - existence probes: table, column, constraint, index
//   - DDL idioms: primary key column, attribute column types
//   - binding: SQL type per attribute, vendor binder overrides
//   - errors: classification of driver errors into a small taxonomy
//   - rendering quirks: placeholder style, null-coalescing function, LIMIT
//
// Strategies are immutable after construction and safe to share. A strategy
// is built once per configured database with New and passed explicitly to
// every component that needs it. Nothing else in the module branches on the
// vendor.
//
// MariaDB and MySQL8 embed MySQL and override only the index existence
// probe.
package dialect
