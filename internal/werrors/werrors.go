// Package werrors defines the discriminated error kinds that wincap
// operations surface at their boundary: OS syscall failures, not-found
// lookups, invalid arguments, and protection-restore failures that must
// never be swallowed.
package werrors

import (
	"errors"
	"fmt"
	"syscall"
)

// Kind discriminates the category of error an Error carries.
type Kind int

const (
	// OsFailure wraps an OS syscall error code and its localized message.
	OsFailure Kind = iota
	// NotFound indicates a process, module, export, or section lookup failed.
	NotFound
	// InvalidArgument indicates a caller-supplied value is structurally invalid,
	// e.g. a zero-length pattern on a scan-required path.
	InvalidArgument
	// ProtectionRestoreFailed indicates a ScopedProtection failed to restore
	// the original page protection on release.
	ProtectionRestoreFailed
)

func (k Kind) String() string {
	switch k {
	case OsFailure:
		return "os failure"
	case NotFound:
		return "not found"
	case InvalidArgument:
		return "invalid argument"
	case ProtectionRestoreFailed:
		return "protection restore failed"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by wincap operations.
type Error struct {
	Kind    Kind
	Code    uint32 // OS error code, meaningful for OsFailure and ProtectionRestoreFailed
	Op      string // operation that failed, e.g. "OpenProcess"
	Message string // human-readable detail; for OsFailure this is the OS's localized message
	Err     error  // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, satisfying
// errors.Is(err, werrors.NotFoundErr) style sentinel comparisons when target
// itself is a bare Kind wrapped via New(kind, "", nil).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an Error of the given kind.
func New(kind Kind, op string, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap constructs an Error of the given kind wrapping err. When err's chain
// holds a syscall.Errno (as golang.org/x/sys/windows.Errno always does),
// its numeric code is copied into Error.Code.
func Wrap(kind Kind, op string, err error) *Error {
	e := &Error{Kind: kind, Op: op, Message: err.Error(), Err: err}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Code = uint32(errno)
	}
	return e
}

// FromWin32 constructs an OsFailure error straight from a Win32 error code,
// for callers that only have the numeric code on hand rather than an error
// value to Wrap (e.g. a GetLastError result read out of band). The message
// comes from syscall.Errno's own Error() method, which on Windows resolves
// the code via FormatMessage internally.
func FromWin32(code uint32) *Error {
	return &Error{Kind: OsFailure, Code: code, Message: syscall.Errno(code).Error()}
}

// NotFoundf constructs a NotFound error with a formatted message.
func NotFoundf(op, format string, args ...any) *Error {
	return &Error{Kind: NotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgumentf constructs an InvalidArgument error with a formatted message.
func InvalidArgumentf(op, format string, args ...any) *Error {
	return &Error{Kind: InvalidArgument, Op: op, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a *Error of the given kind, unwrapping as needed.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
