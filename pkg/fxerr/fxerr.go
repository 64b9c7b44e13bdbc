// Package fxerr defines the typed errors reported by the I/O layers
// around the filter engine.
package fxerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// InvalidGeometry means a buffer length does not match its dimensions.
	InvalidGeometry Kind = iota + 1
	// CodecFailure means an image or container could not be decoded or encoded.
	CodecFailure
	// IoFailure means a filesystem operation failed.
	IoFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidGeometry:
		return "invalid geometry"
	case CodecFailure:
		return "codec failure"
	case IoFailure:
		return "i/o failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels usable with errors.Is.
var (
	ErrInvalidGeometry = &Error{Kind: InvalidGeometry}
	ErrCodec           = &Error{Kind: CodecFailure}
	ErrIO              = &Error{Kind: IoFailure}
)

// Error records a failed operation together with its kind.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the package sentinels can be
// used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// New returns an error of the given kind.
func New(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Geometry returns an InvalidGeometry error describing the mismatch.
func Geometry(op string, n, width, height int) error {
	return &Error{
		Kind: InvalidGeometry,
		Op:   op,
		Err:  fmt.Errorf("buffer of %d bytes does not hold %dx%d RGBA pixels", n, width, height),
	}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
