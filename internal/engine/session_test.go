package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esql-go/esql/dberr"
	"github.com/esql-go/esql/driver"
)

type stubDialect struct {
	BaseDialect
}

func (stubDialect) Name() string { return "stub" }

func (stubDialect) DriverName() string { return "stub" }

func (stubDialect) BuildDSN(*driver.DataSourceInfo, *driver.ConnectionOptions) (string, error) {
	return "", nil
}

func (stubDialect) TranslateError(error) (int, string) { return 1, dberr.StateGeneral }

func newTestSession() *Session {
	s := NewSession(stubDialect{})
	s.opts = &driver.ConnectionOptions{}
	return s
}

func makeResultSet(rows ...string) *ResultSet {
	rs := NewResultSet()
	rs.Columns = []string{"v"}
	for _, r := range rows {
		rs.Rows = append(rs.Rows, []Value{{Data: []byte(r)}})
	}
	rs.NumRows = len(rs.Rows)
	return rs
}

func TestExecWithoutConnection(t *testing.T) {
	s := newTestSession()
	err := s.Exec("select 1")
	assert.True(t, errors.Is(err, dberr.ErrConnectionFailed))
	assert.Equal(t, dberr.CodeConnectionFailed, s.LastCode())
}

func TestStatusRefreshedOnEveryCall(t *testing.T) {
	s := newTestSession()

	require.Error(t, s.Exec("select 1"))
	assert.NotEqual(t, dberr.CodeOK, s.LastCode())

	// a later successful call must not leave the stale failure behind
	c := &driver.Cursor{Name: "c1"}
	require.NoError(t, s.CursorDeclare(c))
	assert.Equal(t, dberr.CodeOK, s.LastCode())
	assert.Equal(t, dberr.StateOK, s.LastState())
	assert.Empty(t, s.LastError())
}

func TestCursorDeclareIsIdempotent(t *testing.T) {
	s := newTestSession()

	first := &driver.Cursor{Name: "c1", Query: "select 1"}
	second := &driver.Cursor{Name: "c1", Query: "select 2"}

	require.NoError(t, s.CursorDeclare(first))
	require.NoError(t, s.CursorDeclare(second))

	// re-declaring a name already present is a no-op, not an overwrite
	assert.Same(t, first, s.cursors["c1"])
}

func TestCursorDeclareInvalid(t *testing.T) {
	s := newTestSession()
	err := s.CursorDeclare(nil)
	assert.True(t, errors.Is(err, dberr.ErrDeclareCursor))
}

func TestEmulatedCursorPaging(t *testing.T) {
	s := newTestSession()

	c := &driver.Cursor{Name: "c1"}
	c.SetPrivateData(makeResultSet("a", "b", "c"))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CursorFetchOne(c, driver.FetchNext), "row %d", i)
	}

	err := s.CursorFetchOne(c, driver.FetchNext)
	assert.True(t, dberr.IsNoData(err))
	assert.Equal(t, dberr.CodeNoData, s.LastCode())
	assert.Equal(t, dberr.StateNoData, s.LastState())

	// exhausted cursors never advance further
	err = s.CursorFetchOne(c, driver.FetchNext)
	assert.True(t, dberr.IsNoData(err))
	rs := c.PrivateData().(*ResultSet)
	assert.Equal(t, rs.NumRows, rs.CurrentRow)
}

func TestEmulatedCursorFetchTracksPosition(t *testing.T) {
	s := newTestSession()

	c := &driver.Cursor{Name: "c1"}
	c.SetPrivateData(makeResultSet("first", "second"))

	require.NoError(t, s.CursorFetchOne(c, driver.FetchNext))

	buf := make([]byte, 16)
	n, isNull, err := s.ResultSetValue(driver.CursorResult(c), 0, 0, buf)
	require.NoError(t, err)
	assert.False(t, isNull)
	assert.Equal(t, "first", string(buf[:n]))

	require.NoError(t, s.CursorFetchOne(c, driver.FetchNext))
	n, _, err = s.ResultSetValue(driver.CursorResult(c), 0, 0, buf)
	require.NoError(t, err)
	assert.Equal(t, "second", string(buf[:n]))
}

func TestFetchFromUnopenedCursor(t *testing.T) {
	s := newTestSession()
	err := s.CursorFetchOne(&driver.Cursor{Name: "ghost"}, driver.FetchNext)
	assert.True(t, errors.Is(err, dberr.ErrFetchRow))
}

func TestCloseUnopenedCursorFails(t *testing.T) {
	s := newTestSession()
	err := s.CursorClose(&driver.Cursor{Name: "ghost"})
	assert.True(t, errors.Is(err, dberr.ErrCloseCursor))
}

func TestCursorCloseReleasesHandle(t *testing.T) {
	s := newTestSession()

	c := &driver.Cursor{Name: "c1"}
	require.NoError(t, s.CursorDeclare(c))
	c.SetPrivateData(makeResultSet("a"))

	require.NoError(t, s.CursorClose(c))
	assert.Nil(t, c.PrivateData())

	// the registry entry holds no dangling result handle
	assert.Nil(t, s.cursors["c1"].PrivateData())
}

func TestCursorOpenEmptyQuery(t *testing.T) {
	s := newTestSession()

	c := &driver.Cursor{Name: "c1", QuerySource: []byte("     "), QuerySourceLen: 5}
	err := s.CursorOpen(c)

	assert.True(t, errors.Is(err, dberr.ErrOpenCursor))
	assert.True(t, errors.Is(err, dberr.ErrEmptyQuery))
	assert.Equal(t, dberr.CodeEmptyQuery, s.LastCode())
}

func TestCursorOpenUnknownPreparedReference(t *testing.T) {
	s := newTestSession()

	c := &driver.Cursor{Name: "c1", Query: "@nosuch"}
	err := s.CursorOpen(c)

	assert.True(t, errors.Is(err, dberr.ErrOpenCursor))
	assert.True(t, errors.Is(err, dberr.ErrInvalidHandle))
	assert.Equal(t, dberr.StateNotFound, s.LastState())
}

func TestExecPreparedUnknownName(t *testing.T) {
	s := newTestSession()
	err := s.ExecPrepared("nope", nil, nil, nil, nil)
	assert.True(t, errors.Is(err, dberr.ErrInvalidHandle))
}

func TestExecParamsCountMismatchFailsFast(t *testing.T) {
	s := newTestSession()

	// the mismatch is detected before the (absent) connection is touched
	err := s.ExecParams("select ?", nil, [][]byte{[]byte("x")}, []int{1}, []uint32{0})
	assert.True(t, dberr.IsInternal(err))
	assert.Equal(t, dberr.CodeInternal, s.LastCode())
}

func TestMoveToFirstRecord(t *testing.T) {
	s := newTestSession()

	err := s.MoveToFirstRecord("")
	assert.True(t, errors.Is(err, dberr.ErrMoveToFirstFailed))

	s.ambient = makeResultSet()
	err = s.MoveToFirstRecord("")
	assert.True(t, dberr.IsNoData(err))
	assert.Equal(t, dberr.StateNoData, s.LastState())

	s.ambient = makeResultSet("row")
	assert.NoError(t, s.MoveToFirstRecord(""))

	err = s.MoveToFirstRecord("nosuch")
	assert.True(t, errors.Is(err, dberr.ErrMoveToFirstFailed))
}

func TestNumRowsAndFields(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, -1, s.NumRows(nil))
	assert.Equal(t, -1, s.NumFields(nil))

	s.ambient = makeResultSet("a", "b")
	assert.Equal(t, 2, s.NumRows(nil))
	assert.Equal(t, 1, s.NumFields(nil))

	c := &driver.Cursor{Name: "c1"}
	c.SetPrivateData(makeResultSet("x"))
	assert.Equal(t, 1, s.NumRows(c))
}

func TestSetPropertyUnsupported(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, driver.PropertyUnsupported, s.SetProperty("anything", 1))
}
