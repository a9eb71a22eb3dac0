// Package mvxerr defines the taxonomy of errors surfaced by the mvx core
// (resolver, install scheduler, environment composer, lockfile engine).
//
// Every public core boundary returns one of these typed errors (or wraps one
// with %w) so callers can branch on Kind without parsing message strings.
package mvxerr

import (
	"errors"
	"fmt"
)

// Kind identifies which row of the spec's error taxonomy an error belongs to.
type Kind string

const (
	KindArgument          Kind = "argument"
	KindVersionNotFound   Kind = "version_not_found"
	KindPluginNotInstalled Kind = "plugin_not_installed"
	KindDependencyBlocked Kind = "dependency_blocked"
	KindIntegrity         Kind = "integrity"
	KindLocked            Kind = "locked"
	KindCacheCorrupt      Kind = "cache_corrupt"
	KindIO                Kind = "io"
	KindCancelled         Kind = "cancelled"
)

// Error is the concrete error type for every taxonomy row. It keeps a cause
// chain via Unwrap so %w and errors.Is/As keep working across the core.
type Error struct {
	Kind  Kind
	Short string // backend short name this error concerns, if any
	Query string // the version/request string that failed, if any
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Short != "" {
		msg = fmt.Sprintf("%s: %s", e.Short, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return o.Kind == e.Kind
	}
	return false
}

func newErr(kind Kind, short, query, msg string, cause error) *Error {
	return &Error{Kind: kind, Short: short, Query: query, Msg: msg, Cause: cause}
}

// VersionNotFound builds the error recorded per-request when neither an
// installed directory nor the backend's remote list has a match.
func VersionNotFound(short, query string) *Error {
	return newErr(KindVersionNotFound, short, query, fmt.Sprintf("no version found matching %q", query), nil)
}

// ArgumentError surfaces malformed user input; it aborts the whole batch
// rather than being recorded per-request (see Install Scheduler §7).
func ArgumentError(msg string, args ...interface{}) *Error {
	return newErr(KindArgument, "", "", fmt.Sprintf(msg, args...), nil)
}

// PluginNotInstalled is returned when a backend's plugin is missing and
// auto-install of plugins is disabled.
func PluginNotInstalled(short string) *Error {
	return newErr(KindPluginNotInstalled, short, "", "plugin not installed", nil)
}

// DependencyBlocked marks a tool whose declared dependency failed to install;
// it is never attempted by the scheduler.
func DependencyBlocked(short, blockedOn string) *Error {
	return newErr(KindDependencyBlocked, short, "", fmt.Sprintf("blocked by failed dependency %q", blockedOn), nil)
}

// IntegrityError wraps a checksum/size mismatch detected after download.
func IntegrityError(short string, cause error) *Error {
	return newErr(KindIntegrity, short, "", "integrity check failed", cause)
}

// Locked is returned when --locked is set but the lockfile has no platform
// entry for the current platform.
func Locked(short, platformKey string) *Error {
	return newErr(KindLocked, short, "", fmt.Sprintf("no lockfile entry for platform %q", platformKey), nil)
}

// CacheCorrupt wraps a failure to write the env cache (returned by
// env.Cache.Store); env.Cache.Load never returns it, it deletes an unreadable
// file and reports a miss. Kept as a typed error so callers can log it at
// debug level without mistaking it for a real failure.
func CacheCorrupt(cause error) *Error {
	return newErr(KindCacheCorrupt, "", "", "cache payload unreadable", cause)
}

// IOError wraps an underlying filesystem/network failure with its cause
// chain intact.
func IOError(short string, cause error) *Error {
	return newErr(KindIO, short, "", "io error", cause)
}

// Cancelled marks an in-flight install that was aborted by a user signal.
func Cancelled(short string) *Error {
	return newErr(KindCancelled, short, "", "cancelled", nil)
}

// Is reports whether err is (or wraps) an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
