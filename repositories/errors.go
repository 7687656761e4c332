package repositories

import "errors"

// ErrNotFound is wrapped by repository implementations when a lookup matches
// no rows. Callers distinguish it from genuine backend failures with
// errors.Is, so a flaky database never masquerades as a missing record.
var ErrNotFound = errors.New("record not found")
