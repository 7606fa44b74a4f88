package driver

import "github.com/esql-go/esql/cobol"

// Cursor is a declared embedded-SQL cursor. Its query is either a literal
// (Query) or a reference to a host-variable buffer (QuerySource) that is
// decoded at open time; a decoded text of the form "@name" refers to the
// stored source of the named prepared statement.
type Cursor struct {
	Name       string
	Connection string // owning connection name, used only for logging
	Query      string
	WithHold   bool

	// QuerySource is the raw host-variable buffer holding the query
	// text when Query is empty. QuerySourceLen follows the host-buffer
	// convention: >0 fixed-length, 0 NUL-terminated, <0 variable-length
	// of total size -len.
	QuerySource    []byte
	QuerySourceLen int

	// Parameter bindings applied when the cursor is opened.
	ParamTypes   []cobol.VarType
	ParamValues  [][]byte
	ParamLengths []int
	ParamFlags   []uint32

	prv any
}

// SourceText resolves the cursor's query text without consulting the
// prepared-statement catalog: the literal query when set, otherwise the
// decoded host-variable buffer.
func (c *Cursor) SourceText() string {
	if c.Query != "" {
		return c.Query
	}
	return cobol.HostText(c.QuerySource, c.QuerySourceLen)
}

// PrivateData returns the backend-owned result state bound to the cursor.
func (c *Cursor) PrivateData() any { return c.prv }

// SetPrivateData binds backend-owned result state to the cursor.
func (c *Cursor) SetPrivateData(v any) { c.prv = v }

// ClearPrivateData releases the cursor's result state.
func (c *Cursor) ClearPrivateData() { c.prv = nil }
