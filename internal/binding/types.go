package binding

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// SQLType is the parameter type hint handed to a Target.
type SQLType int

const (
	TypeUnknown SQLType = iota
	TypeNull
	TypeBoolean
	TypeInteger
	TypeBigInt
	TypeDouble
	TypeDecimal
	TypeVarchar
	TypeClob
	TypeTimestamp
	TypeBlob
)

var sqlTypeNames = [...]string{
	TypeUnknown:   "UNKNOWN",
	TypeNull:      "NULL",
	TypeBoolean:   "BOOLEAN",
	TypeInteger:   "INTEGER",
	TypeBigInt:    "BIGINT",
	TypeDouble:    "DOUBLE",
	TypeDecimal:   "DECIMAL",
	TypeVarchar:   "VARCHAR",
	TypeClob:      "CLOB",
	TypeTimestamp: "TIMESTAMP",
	TypeBlob:      "BLOB",
}

func (t SQLType) String() string {
	if int(t) >= 0 && int(t) < len(sqlTypeNames) {
		return sqlTypeNames[t]
	}
	return fmt.Sprintf("SQLType(%d)", int(t))
}

// InferType guesses the SQLType for a Go value.
func InferType(v any) SQLType {
	switch v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case int, int32, int16, int8, uint8, uint16:
		return TypeInteger
	case int64, uint32, uint64:
		return TypeBigInt
	case float32, float64:
		return TypeDouble
	case *apd.Decimal, apd.Decimal:
		return TypeDecimal
	case string:
		return TypeVarchar
	case time.Time:
		return TypeTimestamp
	case []byte, io.Reader:
		return TypeBlob
	}
	switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
	case reflect.Map, reflect.Struct:
		return TypeBlob
	}
	return TypeUnknown
}
