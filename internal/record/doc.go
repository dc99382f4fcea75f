// Package record implements the identity-mapped entity graph.
//
// A Record is a bag of attribute values checked against its schema.RecordType,
// with an id that stays unset until the record is persisted. A Context is the
// identity map for one unit of work: for a given (type, id) it hands out at
// most one live *Record. A List is the lazily loaded, listener-observed
// collection behind an inverse attribute.
//
// Context is safe for concurrent use. Records and Lists are not; confine a
// record graph to one goroutine at a time, and synchronize first access to
// a List externally if it can race.
package record
