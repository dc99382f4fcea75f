package schema

import "errors"

var (
	ErrUnknownValueType  = errors.New("unknown value type")
	ErrDuplicateAttr     = errors.New("duplicate attribute")
	ErrInvalidAttribute  = errors.New("invalid attribute")
	ErrValueType         = errors.New("value does not match attribute type")
	ErrReservedAttribute = errors.New("attribute name is reserved")
)
