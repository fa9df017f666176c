// Package errs defines the sentinel errors returned across the tml module.
//
// Every error the codec returns wraps one of these sentinels with fmt.Errorf's
// %w verb, so callers can classify failures with errors.Is instead of string
// matching.
package errs

import "errors"

var (
	// ErrIncompleteImplementation marks a requested coercion or kind that is
	// not supported. This is a programmer error, not a data error.
	ErrIncompleteImplementation = errors.New("tml: incomplete implementation")

	// ErrWrongDataFormat marks a user-supplied payload that violates a kind's
	// contract: non-ASCII bytes for Ascii/Url, an integer outside the vbyte
	// range, a corrupt compression envelope, and similar.
	ErrWrongDataFormat = errors.New("tml: wrong data format")

	// ErrInvalidProtocol marks decoded bytes that are not a valid stream: an
	// unknown type byte, or a kind byte outside [0, Invalid).
	ErrInvalidProtocol = errors.New("tml: invalid protocol")

	// ErrInvalidDevice marks a Reader/Writer constructed without a byte
	// source/sink.
	ErrInvalidDevice = errors.New("tml: invalid device")

	// ErrDeviceAccess marks an underlying source/sink that refused to
	// open, read, or write.
	ErrDeviceAccess = errors.New("tml: device access error")
)
