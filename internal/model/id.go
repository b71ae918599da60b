package model

import (
	"errors"
	"fmt"
	"strings"
)

// absentMarker stands in for a missing side in a composite key.
const absentMarker = "-"

// ErrInvalidKey is returned by ParseKey for malformed composite keys.
var ErrInvalidKey = errors.New("invalid identifier key")

// ID is the dual identifier carried by every entity.
//
// Remote is the identifier assigned by the remote source; Local is the
// identifier assigned by the mirror store. Either may be empty (absent).
type ID struct {
	Remote string `json:"remote_id,omitempty"`
	Local  string `json:"local_id,omitempty"`
}

// RemoteID returns an identifier with only the remote side set.
func RemoteID(remote string) ID {
	return ID{Remote: remote}
}

// LocalID returns an identifier with only the local side set.
func LocalID(local string) ID {
	return ID{Local: local}
}

// NewID returns an identifier with both sides set. Empty strings stay absent.
func NewID(remote, local string) ID {
	return ID{Remote: remote, Local: local}
}

// HasRemote reports whether the remote side is present.
func (id ID) HasRemote() bool {
	return id.Remote != ""
}

// HasLocal reports whether the local side is present.
func (id ID) HasLocal() bool {
	return id.Local != ""
}

// IsZero reports whether neither side is present.
func (id ID) IsZero() bool {
	return !id.HasRemote() && !id.HasLocal()
}

// Equal reports whether two identifiers refer to the same entity.
//
// At least one side must be present on both identifiers, and every side
// present on both must match. Absence is never a wildcard: two identifiers
// with no overlapping side are not equal, and two zero identifiers are not
// equal either.
func (id ID) Equal(other ID) bool {
	overlap := false
	if id.HasRemote() && other.HasRemote() {
		if id.Remote != other.Remote {
			return false
		}
		overlap = true
	}
	if id.HasLocal() && other.HasLocal() {
		if id.Local != other.Local {
			return false
		}
		overlap = true
	}
	return overlap
}

// Merge returns id with any absent side filled from other.
// Present sides are never overwritten.
func (id ID) Merge(other ID) ID {
	if !id.HasRemote() {
		id.Remote = other.Remote
	}
	if !id.HasLocal() {
		id.Local = other.Local
	}
	return id
}

// Key serializes the identifier to a composite key of the form
// "r:<remote>|l:<local>", using "-" for an absent side.
func (id ID) Key() string {
	remote, local := id.Remote, id.Local
	if remote == "" {
		remote = absentMarker
	}
	if local == "" {
		local = absentMarker
	}
	return "r:" + remote + "|l:" + local
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return id.Key()
}

// ParseKey parses a composite key produced by Key.
func ParseKey(key string) (ID, error) {
	remotePart, localPart, ok := strings.Cut(key, "|")
	if !ok {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	remote, ok := strings.CutPrefix(remotePart, "r:")
	if !ok {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	local, ok := strings.CutPrefix(localPart, "l:")
	if !ok {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if remote == absentMarker {
		remote = ""
	}
	if local == absentMarker {
		local = ""
	}
	return ID{Remote: remote, Local: local}, nil
}

// ContainsID reports whether ids contains an identifier equal to target.
func ContainsID(ids []ID, target ID) bool {
	for _, id := range ids {
		if id.Equal(target) {
			return true
		}
	}
	return false
}

// RemoveID returns ids without any identifier equal to target.
// The input slice is not modified.
func RemoveID(ids []ID, target ID) []ID {
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if id.Equal(target) {
			continue
		}
		out = append(out, id)
	}
	return out
}
