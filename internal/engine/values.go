package engine

import (
	"fmt"
	"strings"

	"github.com/esql-go/esql/dberr"
	"github.com/esql-go/esql/driver"
)

// ResultSetValue copies the value at (row, col) of the result selected by
// rctx into buf. SQL NULL yields a zero length, a set null flag and an
// empty buffer. A buffer smaller than the encoded value fails without a
// partial write.
func (s *Session) ResultSetValue(rctx driver.ResultContext, row, col int, buf []byte) (int, bool, error) {
	s.status.Clear()

	var rs *ResultSet

	switch rctx.Type {
	case driver.ContextAmbient:
		rs = s.ambient

	case driver.ContextPrepared:
		key := strings.ToLower(rctx.StatementName)
		p, ok := s.prepared[key]
		if !ok {
			s.log.Error("invalid prepared statement name", "name", key)
			return 0, false, s.status.SetError(dberr.New(dberr.ErrInvalidHandle, dberr.CodeInvalidHandle,
				dberr.StateGeneral, fmt.Sprintf("statement %q is not prepared", key)))
		}
		rs = p.rs

	case driver.ContextCursor:
		c := rctx.Cursor
		if c == nil {
			return 0, false, s.status.SetError(dberr.New(dberr.ErrInvalidHandle, dberr.CodeInvalidHandle,
				dberr.StateGeneral, "invalid cursor reference"))
		}
		rs, _ = c.PrivateData().(*ResultSet)
		// An emulated cursor owns the row position; the caller's row
		// index is only honored before the first fetch.
		if rs != nil && rs.CurrentRow != -1 {
			row = rs.CurrentRow
		}
	}

	if rs == nil {
		return 0, false, s.status.SetError(dberr.New(dberr.ErrInvalidHandle, dberr.CodeInvalidHandle,
			dberr.StateGeneral, "no result set bound"))
	}

	if row < 0 || row >= len(rs.Rows) || col < 0 || col >= len(rs.Columns) {
		return 0, false, s.status.SetError(dberr.New(dberr.ErrInvalidHandle, dberr.CodeInvalidHandle,
			dberr.StateGeneral, fmt.Sprintf("row %d col %d out of range", row, col)))
	}

	cell := rs.Rows[row][col]
	if cell.Null {
		if len(buf) > 0 {
			buf[0] = 0
		}
		return 0, true, nil
	}

	data := cell.Data
	if cell.Binary && !s.decodeBinary {
		data = s.dialect.BinaryText(data)
	}

	if len(data) > len(buf) {
		return 0, false, s.status.SetError(dberr.New(dberr.ErrInternal, dberr.CodeInternal, dberr.StateGeneral,
			fmt.Sprintf("output buffer too small: need %d, have %d", len(data), len(buf))))
	}

	copy(buf, data)
	return len(data), false, nil
}
