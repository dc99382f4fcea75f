package record

import (
	"errors"

	"github.com/roach88/schemaql/internal/schema"
)

var (
	ErrUnknownAttribute = errors.New("attribute not declared on record type")
	ErrVirtualAttribute = errors.New("virtual attribute cannot be set")
	ErrValueType        = schema.ErrValueType
	ErrUnknownType      = errors.New("record type not registered")
	ErrAlreadyPersisted = errors.New("record already persisted")
	ErrForeignContext   = errors.New("record belongs to another context")
	ErrInvalidOwner     = errors.New("list needs an owner record and an inverse attribute")
	ErrStaleView        = errors.New("list view modified behind its back")
	ErrInitializing     = errors.New("list accessed while initializing")
	ErrIndexOutOfRange  = errors.New("list index out of range")
)
