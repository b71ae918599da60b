package repository

import (
	"errors"
	"fmt"

	"github.com/roach88/boardctl/internal/selection"
)

// ErrorCode categorizes repository errors for callers that report them,
// such as the CLI's JSON output.
type ErrorCode string

const (
	// ErrCodeNoSelection indicates an implicit target was needed but nothing is selected.
	ErrCodeNoSelection ErrorCode = "NO_SELECTION"

	// ErrCodeNotFound indicates no entity matched a name.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeAmbiguousName indicates several entities matched a name exactly.
	ErrCodeAmbiguousName ErrorCode = "AMBIGUOUS_NAME"

	// ErrCodeRemoteUnavailable indicates the remote call failed or could not be made.
	ErrCodeRemoteUnavailable ErrorCode = "REMOTE_UNAVAILABLE"

	// ErrCodeMirrorUnavailable indicates the mirror could not serve a fallback read.
	ErrCodeMirrorUnavailable ErrorCode = "MIRROR_UNAVAILABLE"

	// ErrCodeInternal covers everything else.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// NoSelectionError is returned when an operation's target was omitted and
// nothing is selected at that level.
type NoSelectionError = selection.NoSelectionError

// NotFoundError is returned when no entity of Kind is named Name.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// AmbiguousNameError is returned when Count entities of Kind carry exactly
// the name Name.
type AmbiguousNameError struct {
	Kind  string
	Name  string
	Count int
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("%d %ss are named %q", e.Count, e.Kind, e.Name)
}

// RemoteUnavailableError wraps a failed or impossible remote call.
type RemoteUnavailableError struct {
	Op  string
	Err error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("%s: remote unavailable: %v", e.Op, e.Err)
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}

// MirrorUnavailableError wraps a failed mirror read during fallback.
type MirrorUnavailableError struct {
	Op  string
	Err error
}

func (e *MirrorUnavailableError) Error() string {
	return fmt.Sprintf("%s: mirror unavailable: %v", e.Op, e.Err)
}

func (e *MirrorUnavailableError) Unwrap() error {
	return e.Err
}

// IsNoSelection reports whether err is or wraps a *NoSelectionError.
func IsNoSelection(err error) bool {
	var target *NoSelectionError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAmbiguousName reports whether err is or wraps an *AmbiguousNameError.
func IsAmbiguousName(err error) bool {
	var target *AmbiguousNameError
	return errors.As(err, &target)
}

// IsRemoteUnavailable reports whether err is or wraps a *RemoteUnavailableError.
func IsRemoteUnavailable(err error) bool {
	var target *RemoteUnavailableError
	return errors.As(err, &target)
}

// IsMirrorUnavailable reports whether err is or wraps a *MirrorUnavailableError.
func IsMirrorUnavailable(err error) bool {
	var target *MirrorUnavailableError
	return errors.As(err, &target)
}

// CodeOf classifies err. When both backends failed the remote code wins.
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case IsNoSelection(err):
		return ErrCodeNoSelection
	case IsNotFound(err):
		return ErrCodeNotFound
	case IsAmbiguousName(err):
		return ErrCodeAmbiguousName
	case IsRemoteUnavailable(err):
		return ErrCodeRemoteUnavailable
	case IsMirrorUnavailable(err):
		return ErrCodeMirrorUnavailable
	default:
		return ErrCodeInternal
	}
}
