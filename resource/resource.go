// Package resource classifies failures to open the files the pipeline depends on
// (embedding tables, checkpoints, corpora).
package resource

import "io"
import "os"

import "github.com/pkg/errors"

// ErrNotFound reports a resource that does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrUnreadable reports a resource that exists but cannot be read or decoded.
var ErrUnreadable = errors.New("resource unreadable")

type classified struct {
	kind  error
	cause error
	name  string
}

func (c *classified) Error() string {
	return c.kind.Error() + ": " + c.name + ": " + c.cause.Error()
}

func (c *classified) Is(target error) bool {
	return target == c.kind
}

func (c *classified) Unwrap() error {
	return c.cause
}

// NotFound wraps err as ErrNotFound for the named resource.
func NotFound(name string, err error) error {
	return &classified{kind: ErrNotFound, cause: err, name: name}
}

// Unreadable wraps err as ErrUnreadable for the named resource.
func Unreadable(name string, err error) error {
	if err == nil {
		err = errors.New("invalid content")
	}
	return &classified{kind: ErrUnreadable, cause: err, name: name}
}

// Classify maps an error from opening name onto ErrNotFound or ErrUnreadable.
// Errors already classified are returned unchanged.
func Classify(name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnreadable) {
		return err
	}
	if errors.Is(err, os.ErrNotExist) {
		return NotFound(name, err)
	}
	return Unreadable(name, err)
}

// Open opens the named file for reading, classifying any failure.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Classify(name, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Unreadable(name, err)
	}
	if st.IsDir() {
		f.Close()
		return nil, Unreadable(name, errors.New("is a directory"))
	}
	return f, nil
}
