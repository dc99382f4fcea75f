// Package schema holds the attribute metadata that the record model and the
// query layer consume.
//
// A RecordType is an ordered set of Attributes plus the table that backs it.
// Attributes come in four kinds:
//
//	KindSimple     scalar column (string, bool, long, double, decimal, date)
//	KindBinary     BLOB column, bound through the binary binding path
//	KindReference  column holding the id of another record type
//	KindInverse    virtual collection owned by the referenced side
//
// Every record type carries an implicit numeric "id" column that is not
// declared as an attribute.
//
// The package is metadata only. It never talks to a database.
package schema
