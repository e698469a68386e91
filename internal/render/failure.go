package render

import (
	"errors"
	"fmt"
	"io/fs"
)

// FailureKind classifies why a file could not be rendered.
type FailureKind int

const (
	// NotFound means the path vanished before it could be read.
	NotFound FailureKind = iota
	// Unreadable covers permission and other I/O errors.
	Unreadable
	// DecodeFailure covers malformed images, invalid UTF-8 and corrupt tables.
	DecodeFailure
	// Unsupported covers content a format-specific parser or formatter rejects.
	Unsupported
)

func (k FailureKind) String() string {
	switch k {
	case NotFound:
		return "not-found"
	case Unreadable:
		return "unreadable"
	case DecodeFailure:
		return "decode"
	default:
		return "unsupported"
	}
}

// Failure is the single error type that leaves TryRender.
type Failure struct {
	Kind FailureKind
	Path string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("render %s (%s): %v", f.Path, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// readFailure classifies an error returned by the file system.
func readFailure(path string, err error) *Failure {
	kind := Unreadable
	if errors.Is(err, fs.ErrNotExist) {
		kind = NotFound
	}
	return &Failure{Kind: kind, Path: path, Err: err}
}

func decodeFailure(path string, err error) *Failure {
	return &Failure{Kind: DecodeFailure, Path: path, Err: err}
}

func unsupported(path string, err error) *Failure {
	return &Failure{Kind: Unsupported, Path: path, Err: err}
}

// asFailure passes a *Failure through and treats anything else as unsupported.
func asFailure(path string, err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return unsupported(path, err)
}
