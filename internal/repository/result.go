package repository

import "github.com/roach88/boardctl/internal/reconcile"

// Source records where a read was served from.
type Source int

const (
	FromRemote Source = iota
	FromMirror
	FromCache
)

func (s Source) String() string {
	switch s {
	case FromRemote:
		return "remote"
	case FromMirror:
		return "mirror"
	case FromCache:
		return "cache"
	default:
		return "unknown"
	}
}

// Result is the answer to a read-all operation.
type Result[T any] struct {
	Items  []T
	Source Source

	// Stale is set when both backends failed and Items is the last cached
	// collection, kept past its invalidation.
	Stale bool

	// RemoteErr is the remote failure that caused a fallback, if any.
	RemoteErr error

	// Sync lists entities the remote returned but the mirror rejected.
	Sync *reconcile.PartialFailure
}
