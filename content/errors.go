package content

import (
	"errors"
	"fmt"
)

// StorageError reports a content root or post file that could not be read.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Op, e.Path, e.Err.Error())
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotFoundError reports a slug with no post behind it.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post %q not found", e.Slug)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
