package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly    = errors.New("repository is in read-only mode")
	ErrInvalidNote = errors.New("invalid note")
)

// StorageError reports a failure reading or writing the backing store.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
