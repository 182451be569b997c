package out

import "errors"

// ErrDuplicate is returned by repositories when a write hits a uniqueness
// constraint, typically because a concurrent request won the race between
// a duplicate check and the insert.
var ErrDuplicate = errors.New("duplicate entry")
