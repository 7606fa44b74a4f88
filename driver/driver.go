// Package driver defines the contract every database backend must
// implement: the operation set, the connection vocabulary, cursors, and
// the result-retrieval context. Backends live under drivers/ and are
// resolved by name through the esql factory.
package driver

import (
	"log/slog"

	"github.com/esql-go/esql/cobol"
)

// FetchMode selects the row a cursor fetch positions on.
type FetchMode int

const (
	FetchNext FetchMode = iota
	FetchPrev
	FetchCurrent
)

// PropertyResult is the outcome of a SetProperty call.
type PropertyResult int

const (
	PropertySet PropertyResult = iota
	PropertyFailed
	PropertyUnsupported
)

// NativeFeature is a bitmask of capabilities a backend supports natively.
type NativeFeature uint64

const (
	// FeatureRowCount means the backend reports result-set row counts
	// without a separate query.
	FeatureRowCount NativeFeature = 1 << iota
)

// Driver is the operation set every backend exposes. One Driver instance
// owns at most one live connection and is not safe for concurrent use;
// callers sharing an instance across goroutines must serialize access.
//
// Mutating operations return an error wrapping *dberr.Error and, in the
// same breath, refresh the instance's status record: LastCode, LastState
// and LastError always describe the most recent call, success included.
type Driver interface {
	// Init prepares the instance for use. The logger is retained for the
	// lifetime of the instance.
	Init(logger *slog.Logger) error

	// Connect establishes the backend connection. A previous connection,
	// if any, is torn down first.
	Connect(dsi *DataSourceInfo, opts *ConnectionOptions) error

	// Reset tears down and nullifies the native connection handle and
	// clears the ambient result slot.
	Reset() error

	// Terminate closes the connection. The instance may be reconnected.
	Terminate() error

	// Exec runs a statement without parameters. The result becomes the
	// ambient result.
	Exec(sql string) error

	// ExecParams runs a statement with host-variable parameters. The
	// types, values, lengths and flags vectors must have identical
	// length; a mismatch fails before anything reaches the backend.
	ExecParams(sql string, types []cobol.VarType, values [][]byte, lengths []int, flags []uint32) error

	// Prepare registers a named statement. Names are case-insensitive
	// and preparing a name twice fails. Prepared statements live until
	// the connection does.
	Prepare(name, sql string) error

	// ExecPrepared runs a previously prepared statement, producing a
	// fresh result set registered under the statement's name.
	ExecPrepared(name string, types []cobol.VarType, values [][]byte, lengths []int, flags []uint32) error

	// CursorDeclare registers a cursor. Re-declaring a name already
	// present is a no-op, not an overwrite.
	CursorDeclare(c *Cursor) error

	// CursorOpen executes the cursor's query and binds its result.
	CursorOpen(c *Cursor) error

	// CursorFetchOne positions the cursor on one row according to mode.
	CursorFetchOne(c *Cursor, mode FetchMode) error

	// CursorClose releases the cursor's result and, for server-side
	// cursors, closes the native cursor.
	CursorClose(c *Cursor) error

	// ResultSetValue copies the value at (row, col) of the result
	// selected by ctx into buf. It returns the value's byte length and
	// the SQL NULL flag. A buffer smaller than the value fails without
	// a partial write.
	ResultSetValue(ctx ResultContext, row, col int, buf []byte) (n int, isNull bool, err error)

	// MoveToFirstRecord verifies the named prepared statement's result
	// (or the ambient result when name is empty) has at least one row.
	MoveToFirstRecord(stmtName string) error

	// NumRows returns the row or affected-row count of the cursor's
	// result, or of the ambient result when c is nil. Negative means no
	// result is bound.
	NumRows(c *Cursor) int

	// NumFields returns the column count of the cursor's result, or of
	// the ambient result when c is nil.
	NumFields(c *Cursor) int

	// LastError, LastCode and LastState expose the status record left by
	// the most recent operation.
	LastError() string
	LastCode() int
	LastState() string

	// NativeFeatures reports the backend's native capabilities.
	NativeFeatures() NativeFeature

	// SetProperty adjusts a backend-specific knob. Backends without an
	// equivalent knob return PropertyUnsupported.
	SetProperty(name string, value any) PropertyResult
}
