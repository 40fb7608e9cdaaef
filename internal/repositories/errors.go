package repositories

import "errors"

// ErrNotFound is returned by repositories when a requested record does not
// exist. Services match it with errors.Is to map storage misses to their
// own error kinds.
var ErrNotFound = errors.New("record not found")
