package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esql-go/esql/dberr"
	"github.com/esql-go/esql/driver"
)

func TestResultSetValueAmbient(t *testing.T) {
	s := newTestSession()
	s.decodeBinary = true

	rs := NewResultSet()
	rs.Columns = []string{"name", "note"}
	rs.Rows = [][]Value{
		{{Data: []byte("alpha")}, {Null: true}},
	}
	rs.NumRows = 1
	s.ambient = rs

	buf := make([]byte, 8)
	n, isNull, err := s.ResultSetValue(driver.AmbientResult(), 0, 0, buf)
	require.NoError(t, err)
	assert.False(t, isNull)
	assert.Equal(t, "alpha", string(buf[:n]))

	buf[0] = 'x'
	n, isNull, err = s.ResultSetValue(driver.AmbientResult(), 0, 1, buf)
	require.NoError(t, err)
	assert.True(t, isNull)
	assert.Zero(t, n)
	assert.Equal(t, byte(0), buf[0])
}

func TestResultSetValueBufferTooSmall(t *testing.T) {
	s := newTestSession()
	s.decodeBinary = true
	s.ambient = makeResultSet("a long value")

	buf := []byte{'z', 'z'}
	n, _, err := s.ResultSetValue(driver.AmbientResult(), 0, 0, buf)
	assert.True(t, dberr.IsInternal(err))
	assert.Zero(t, n)

	// no partial write on failure
	assert.Equal(t, []byte{'z', 'z'}, buf)
}

func TestResultSetValueBinaryPassthrough(t *testing.T) {
	s := newTestSession()
	s.decodeBinary = false

	rs := NewResultSet()
	rs.Columns = []string{"payload"}
	rs.Rows = [][]Value{{{Data: []byte{0xde, 0xad}, Binary: true}}}
	rs.NumRows = 1
	s.ambient = rs

	buf := make([]byte, 16)
	n, _, err := s.ResultSetValue(driver.AmbientResult(), 0, 0, buf)
	require.NoError(t, err)
	assert.Equal(t, "dead", string(buf[:n]))

	// with decoding on, raw bytes come through untouched
	s.decodeBinary = true
	n, _, err = s.ResultSetValue(driver.AmbientResult(), 0, 0, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, buf[:n])
}

func TestResultSetValueNoResultBound(t *testing.T) {
	s := newTestSession()

	_, _, err := s.ResultSetValue(driver.AmbientResult(), 0, 0, make([]byte, 4))
	assert.True(t, errors.Is(err, dberr.ErrInvalidHandle))
}

func TestResultSetValueUnknownPrepared(t *testing.T) {
	s := newTestSession()

	_, _, err := s.ResultSetValue(driver.PreparedResult("nosuch"), 0, 0, make([]byte, 4))
	assert.True(t, errors.Is(err, dberr.ErrInvalidHandle))
	assert.Equal(t, dberr.CodeInvalidHandle, s.LastCode())
}

func TestResultSetValueOutOfRange(t *testing.T) {
	s := newTestSession()
	s.ambient = makeResultSet("only")

	buf := make([]byte, 8)
	for _, rc := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		_, _, err := s.ResultSetValue(driver.AmbientResult(), rc[0], rc[1], buf)
		assert.True(t, errors.Is(err, dberr.ErrInvalidHandle), "row=%d col=%d", rc[0], rc[1])
	}
}

func TestResultSetValueCursorRowOverride(t *testing.T) {
	s := newTestSession()
	s.decodeBinary = true

	c := &driver.Cursor{Name: "c1"}
	c.SetPrivateData(makeResultSet("a", "b"))

	// before the first fetch the caller's row index is honored
	buf := make([]byte, 8)
	n, _, err := s.ResultSetValue(driver.CursorResult(c), 1, 0, buf)
	require.NoError(t, err)
	assert.Equal(t, "b", string(buf[:n]))

	// after a fetch the cursor position wins
	require.NoError(t, s.CursorFetchOne(c, driver.FetchNext))
	n, _, err = s.ResultSetValue(driver.CursorResult(c), 1, 0, buf)
	require.NoError(t, err)
	assert.Equal(t, "a", string(buf[:n]))
}

func TestResultSetValueNilCursor(t *testing.T) {
	s := newTestSession()

	_, _, err := s.ResultSetValue(driver.CursorResult(nil), 0, 0, make([]byte, 4))
	assert.True(t, errors.Is(err, dberr.ErrInvalidHandle))
}
