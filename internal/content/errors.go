package content

import "errors"

var (
	ErrNotFound      = errors.New("content item not found")
	ErrExists        = errors.New("content item already exists")
	ErrInvalidName   = errors.New("invalid content item name")
	ErrConflict      = errors.New("content changed since session began")
	ErrSessionClosed = errors.New("session closed")
	ErrValueFormat   = errors.New("property value cannot be converted")
	ErrMultiValued   = errors.New("property is multi-valued")
)
