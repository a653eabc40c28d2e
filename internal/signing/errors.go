package signing

import (
	"errors"
	"fmt"
)

// Kind classifies a resolution failure.
type Kind int

const (
	KindUnknown         Kind = iota
	KindMissingConfig        // properties file absent at the expected location
	KindIncompleteConfig     // one or more required keys absent or blank
	KindMissingKeystore      // resolved keystore path does not exist
)

func (k Kind) String() string {
	switch k {
	case KindMissingConfig:
		return "MissingConfig"
	case KindIncompleteConfig:
		return "IncompleteConfig"
	case KindMissingKeystore:
		return "MissingKeystore"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is. A *Error matches the sentinel of its kind.
var (
	ErrMissingConfig    = errors.New("signing: missing config")
	ErrIncompleteConfig = errors.New("signing: incomplete config")
	ErrMissingKeystore  = errors.New("signing: missing keystore")
)

// Error is returned by Resolve for the three fatal signing failures.
type Error struct {
	kind    Kind
	path    string
	missing []string
}

// Error implements the error interface. The message never names which
// credential is missing.
func (e *Error) Error() string {
	switch e.kind {
	case KindMissingConfig:
		return fmt.Sprintf("Missing signing config: %s", e.path)
	case KindIncompleteConfig:
		return "Incomplete signing config in key.properties"
	case KindMissingKeystore:
		return fmt.Sprintf("Keystore file not found: %s", e.path)
	default:
		return "signing: unknown error"
	}
}

// Is lets errors.Is match on the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMissingConfig:
		return e.kind == KindMissingConfig
	case ErrIncompleteConfig:
		return e.kind == KindIncompleteConfig
	case ErrMissingKeystore:
		return e.kind == KindMissingKeystore
	}
	return false
}

// Kind reports the failure class.
func (e *Error) Kind() Kind {
	return e.kind
}

// Path is the properties path for MissingConfig and the storeFile value as
// written in the properties file for MissingKeystore.
func (e *Error) Path() string {
	return e.path
}

// MissingKeys lists the absent or blank keys of an IncompleteConfig error.
func (e *Error) MissingKeys() []string {
	return append([]string(nil), e.missing...)
}

// KindOf extracts the Kind from err, or KindUnknown when err is not a
// *Error.
func KindOf(err error) Kind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.kind
	}
	return KindUnknown
}
