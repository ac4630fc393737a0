package types

import "errors"

// ErrNotFound marks lookups for rows that do not exist, so handlers can map
// them to 404 instead of a generic storage failure.
var ErrNotFound = errors.New("not found")
