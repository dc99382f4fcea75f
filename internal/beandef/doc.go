// Package beandef maintains bean definitions read from a content store.
//
// A bean definition is a content node of the definition type (by default
// "bean:definition") under one of the registry roots. The node name is the
// bean type name. Its "superType" property names a single parent
// definition; every other property is metadata. Child nodes of the property
// type ("bean:property") declare the definition's own properties, using
// "type" and "multiple" properties plus free-form metadata.
//
// Each definition exposes AllProperties: the synthetic "beanType" identity
// property, then the parent's properties (recursively), then its own.
//
// # Maintenance
//
// The registry listens to the store. Changes seen during a content session
// are queued per session and only applied when that session commits: the
// queued operations run against a copy of the definitions, inheritance is
// recomputed, and the copy replaces the published set in one step. Readers
// therefore never see a half-applied session. A failed commit discards the
// queue. If any queued operation fails, the whole batch is dropped and the
// failure is logged; the registry keeps serving the last good state.
package beandef
