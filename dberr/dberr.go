// Package dberr defines the status codes, SQLSTATE record and error
// taxonomy shared by all database drivers. Every driver operation leaves
// behind a (code, SQLSTATE, message) triple that the embedded-SQL call
// site can query after the fact; Go callers additionally get a typed
// error chain.
package dberr

import (
	"errors"
	"fmt"
)

// Engine status codes. Zero is success, small negative values are engine
// conditions, and NoData keeps the SQLCODE-compatible positive 100.
// Backend-native failures are folded through SQLCode below so they can
// never collide with these.
const (
	CodeOK                  = 0
	CodeNoData              = 100
	CodeConnectionFailed    = -100
	CodeConnResetFailed     = -101
	CodeEmptyQuery          = -102
	CodeSQLError            = -103
	CodeInternal            = -104
	CodePrepareFailed       = -105
	CodeDeclareCursorFailed = -106
	CodeOpenCursorFailed    = -107
	CodeCloseCursorFailed   = -108
	CodeFetchRowFailed      = -109
	CodeMoveToFirstFailed   = -110
	CodeTooMuchData         = -111
	CodeInvalidHandle       = -112
)

// Common SQLSTATE values.
const (
	StateOK       = "00000"
	StateNoData   = "02000"
	StateGeneral  = "HY000"
	StateNotFound = "42704"
)

// sqlCodeOffset keeps backend-native status codes out of the engine's own
// code space.
const sqlCodeOffset = 10000

// SQLCode folds a backend-native status code into the engine code space.
func SQLCode(native int) int {
	if native < 0 {
		native = -native
	}
	return -(sqlCodeOffset + native)
}

// Sentinel errors for the engine's failure classes.
var (
	ErrNoData             = errors.New("no data")
	ErrTooMuchData        = errors.New("too much data")
	ErrInternal           = errors.New("internal error")
	ErrConnectionFailed   = errors.New("connection failed")
	ErrConnResetFailed    = errors.New("connection reset failed")
	ErrEmptyQuery         = errors.New("empty query")
	ErrSQL                = errors.New("sql error")
	ErrPrepareFailed      = errors.New("prepare failed")
	ErrDeclareCursor      = errors.New("declare cursor failed")
	ErrOpenCursor         = errors.New("open cursor failed")
	ErrCloseCursor        = errors.New("close cursor failed")
	ErrFetchRow           = errors.New("fetch row failed")
	ErrMoveToFirstFailed  = errors.New("move to first record failed")
	ErrInvalidHandle      = errors.New("invalid statement or cursor handle")
)

// Error carries the full status triple alongside the Go error chain.
type Error struct {
	Code    int
	State   string
	Message string
	Kind    error // one of the sentinels above
	Cause   error // backend-native error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.State != "" && e.State != StateOK {
		return fmt.Sprintf("dberr [%d/%s]: %s", e.Code, e.State, e.Message)
	}
	return fmt.Sprintf("dberr [%d]: %s", e.Code, e.Message)
}

// Unwrap exposes the backend-native cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches against the failure-class sentinels as well as the cause.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target) || errors.Is(e.Cause, target)
}

// New builds an engine error for a failure class with an explicit triple.
func New(kind error, code int, state, message string) *Error {
	return &Error{Code: code, State: state, Message: message, Kind: kind}
}

// Wrap builds an engine error around a backend-native failure.
func Wrap(kind error, code int, state string, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Code: code, State: state, Message: msg, Kind: kind, Cause: cause}
}

// IsNoData reports whether err is a no-data outcome.
func IsNoData(err error) bool { return errors.Is(err, ErrNoData) }

// IsTooMuchData reports whether err is a too-much-data outcome.
func IsTooMuchData(err error) bool { return errors.Is(err, ErrTooMuchData) }

// IsInternal reports whether err is an engine contract violation.
func IsInternal(err error) bool { return errors.Is(err, ErrInternal) }
