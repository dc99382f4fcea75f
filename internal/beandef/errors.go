package beandef

import "errors"

var (
	// ErrDuplicateName is returned when two definition nodes share a name.
	ErrDuplicateName = errors.New("duplicate bean definition name")

	// ErrNotLoaded is returned by operations that need Load first.
	ErrNotLoaded = errors.New("registry not loaded")

	// ErrAlreadyLoaded is returned by a second Load.
	ErrAlreadyLoaded = errors.New("registry already loaded")
)
