package store

import "fmt"

// StorageError wraps any failure to open, read, write or reset the
// database file. The store never retries and never swallows one; callers
// decide whether to log-and-continue or abort.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
