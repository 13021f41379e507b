// Package errs defines the closed set of error values returned by gribcodes.
//
// Engine-level failures additionally carry a status.Status describing the
// native return code; use errors.Is / errors.As to classify them.
package errs

import "errors"

var (
	// ErrMissingKey is returned when the requested key reports the "missing"
	// native type, or is not present in the message at all.
	ErrMissingKey = errors.New("key is missing in the message")

	// ErrIncorrectKeySize is returned when a key reports a cardinality below
	// one. This indicates a corrupted file or an engine bug.
	ErrIncorrectKeySize = errors.New("incorrect key size")

	// ErrWrongRequestedKeyType is returned by checked readers when the
	// requested static type does not match the key's native type.
	ErrWrongRequestedKeyType = errors.New("requested key type does not match native type")

	// ErrWrongRequestedKeySize is returned by checked scalar readers when the
	// key holds more than one element.
	ErrWrongRequestedKeySize = errors.New("requested scalar but key holds an array")

	// ErrCloneFailed is returned when the engine's clone primitive produced
	// no handle.
	ErrCloneFailed = errors.New("cannot clone the message")

	// ErrKeysIteratorFailed is returned when a keys iterator cannot be
	// created or advanced.
	ErrKeysIteratorFailed = errors.New("cannot create or advance keys iterator")

	// ErrNullHandle is returned when an operation reaches a handle that has
	// already been released or invalidated. In correct usage this signals a
	// stale borrowed message, not a runtime condition of the file.
	ErrNullHandle = errors.New("handle is released or invalidated")

	// ErrInvalidString is returned when bytes reported as a string key are
	// not valid UTF-8, even after the trailing-NUL retry.
	ErrInvalidString = errors.New("key bytes are not a valid UTF-8 string")

	// ErrStreamOpen is returned when the OS-level stream for a source cannot
	// be created; the underlying cause is wrapped.
	ErrStreamOpen = errors.New("cannot open source stream")

	// ErrSourceClosed is returned when a source is used after Close.
	ErrSourceClosed = errors.New("source is closed")
)
