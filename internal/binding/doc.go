// Package binding separates "what value goes into a statement parameter" from
// "how it is written to the statement".
//
// A Binder writes one positional parameter into a Target when the statement
// is executed, not when it is rendered. That lets the query layer render a
// statement whose values are not available yet (a reference id that is
// assigned by an earlier INSERT in the same unit of work, a lazily computed
// value, a stream).
//
// Three binding paths exist:
//
//  1. generic object binding with an explicit SQLType when known (Object)
//  2. binary binding (Blob): input is normalized into a replayable byte
//     stream whether it arrived as an io.Reader, a []byte, or a structured
//     value that is encoded as BSON first
//  3. vendor overrides supplied through Overrides, consulted first by Resolve
//
// Args is the Target used with database/sql: it collects driver arguments
// for a single execution.
package binding
