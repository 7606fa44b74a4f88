package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/esql-go/esql/dberr"
	"github.com/esql-go/esql/driver"
)

// CursorDeclare registers a cursor. Re-declaring a name already present
// is a no-op.
func (s *Session) CursorDeclare(c *driver.Cursor) error {
	s.status.Clear()
	if c == nil || c.Name == "" {
		return s.status.SetError(dberr.New(dberr.ErrDeclareCursor, dberr.CodeDeclareCursorFailed,
			dberr.StateGeneral, "invalid cursor"))
	}
	if _, exists := s.cursors[c.Name]; !exists {
		s.cursors[c.Name] = c
	}
	return nil
}

// CursorOpen resolves the cursor's query text and executes it. Under
// native cursors the query is wrapped in a DECLARE ... CURSOR FOR form;
// otherwise the whole result is materialized client-side.
func (s *Session) CursorOpen(c *driver.Cursor) error {
	s.status.Clear()
	if c == nil {
		return s.status.SetError(dberr.New(dberr.ErrOpenCursor, dberr.CodeOpenCursorFailed,
			dberr.StateGeneral, "invalid cursor"))
	}

	squery := c.SourceText()

	// "@name" refers to the stored source of a prepared statement.
	if strings.HasPrefix(squery, "@") {
		src, err := s.PreparedSourceText(squery[1:])
		if err != nil {
			return s.opWrap(dberr.ErrOpenCursor, dberr.CodeOpenCursorFailed, err)
		}
		squery = src
	}

	if squery == "" {
		return s.opFailure(dberr.ErrOpenCursor, dberr.CodeOpenCursorFailed,
			dberr.New(dberr.ErrEmptyQuery, dberr.CodeEmptyQuery, dberr.StateGeneral, "empty query"))
	}

	full := squery
	if s.nativeCursors {
		if c.WithHold {
			full = "DECLARE " + c.Name + " CURSOR WITH HOLD FOR " + squery
		} else {
			full = "DECLARE " + c.Name + " CURSOR FOR " + squery
		}
	}

	var args []any
	if len(c.ParamTypes) > 0 || len(c.ParamValues) > 0 {
		var err error
		args, err = MarshalParams(c.ParamTypes, c.ParamValues, c.ParamLengths, c.ParamFlags)
		if err != nil {
			return s.opFailure(dberr.ErrOpenCursor, dberr.CodeOpenCursorFailed, err.(*dberr.Error))
		}
	}

	s.log.Debug("cursor open", "cursor", c.Name, "native", s.nativeCursors, "with_hold", c.WithHold)

	if err := s.execStatement(c, full, args); err != nil {
		return s.opWrap(dberr.ErrOpenCursor, dberr.CodeOpenCursorFailed, err)
	}
	return nil
}

// CursorFetchOne positions the cursor on one row. Under native cursors a
// relative fetch is issued to the backend and its row count classified:
// zero rows is no-data, one is success, and more than one is an internal
// consistency failure since a single relative fetch returns at most one
// row. Emulated cursors page through the materialized result by index
// and yield exactly one logical row per fetch by construction.
func (s *Session) CursorFetchOne(c *driver.Cursor, mode driver.FetchMode) error {
	s.status.Clear()
	if c == nil {
		return s.status.SetError(dberr.New(dberr.ErrFetchRow, dberr.CodeFetchRowFailed,
			dberr.StateGeneral, "invalid cursor"))
	}

	rs, _ := c.PrivateData().(*ResultSet)
	if rs == nil {
		return s.status.SetError(dberr.New(dberr.ErrFetchRow, dberr.CodeFetchRowFailed,
			dberr.StateGeneral, fmt.Sprintf("cursor %q is not open", c.Name)))
	}

	s.log.Debug("cursor fetch", "cursor", c.Name, "mode", int(mode))

	if s.nativeCursors {
		var rel string
		switch mode {
		case driver.FetchPrev:
			rel = "-1"
		case driver.FetchCurrent:
			rel = "0"
		default:
			rel = "1"
		}

		if err := s.execStatement(c, "FETCH RELATIVE "+rel+" FROM "+c.Name, nil); err != nil {
			return s.opWrap(dberr.ErrFetchRow, dberr.CodeFetchRowFailed, err)
		}

		fetched, _ := c.PrivateData().(*ResultSet)
		switch {
		case fetched.NumRows < 1:
			return s.status.SetError(dberr.New(dberr.ErrNoData, dberr.CodeNoData, dberr.StateNoData, "no data"))
		case fetched.NumRows > 1:
			return s.status.SetError(dberr.New(dberr.ErrTooMuchData, dberr.CodeTooMuchData,
				dberr.StateGeneral, "relative fetch returned more than one row"))
		}
		return nil
	}

	rs.CurrentRow++
	if rs.CurrentRow >= rs.NumRows {
		rs.CurrentRow = rs.NumRows
		return s.status.SetError(dberr.New(dberr.ErrNoData, dberr.CodeNoData, dberr.StateNoData, "no data"))
	}
	return nil
}

// CursorClose releases the cursor's result; native server-side cursors
// are explicitly closed first. Closing an unopened cursor is a failure,
// not a no-op.
func (s *Session) CursorClose(c *driver.Cursor) error {
	s.status.Clear()
	if c == nil {
		return s.status.SetError(dberr.New(dberr.ErrCloseCursor, dberr.CodeCloseCursorFailed,
			dberr.StateGeneral, "invalid cursor"))
	}

	rs, _ := c.PrivateData().(*ResultSet)
	if rs == nil {
		return s.status.SetError(dberr.New(dberr.ErrCloseCursor, dberr.CodeCloseCursorFailed,
			dberr.StateGeneral, fmt.Sprintf("cursor %q is not open", c.Name)))
	}

	s.log.Debug("cursor close", "cursor", c.Name, "native", s.nativeCursors)

	if s.nativeCursors && s.conn != nil {
		if _, err := s.conn.ExecContext(context.Background(), "CLOSE "+c.Name); err != nil {
			c.ClearPrivateData()
			return s.opWrap(dberr.ErrCloseCursor, dberr.CodeCloseCursorFailed, s.sqlFailure(err))
		}
	}

	c.ClearPrivateData()
	return nil
}
