package core

import "errors"

// ErrNotFound is wrapped by services when a requested record does not exist.
// Callers branch on it with errors.Is to distinguish missing data from
// transport or query failures.
var ErrNotFound = errors.New("not found")
