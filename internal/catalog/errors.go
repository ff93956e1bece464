package catalog

import "errors"

// ErrNotFound indicates the referenced row does not exist.
var ErrNotFound = errors.New("catalog: not found")
