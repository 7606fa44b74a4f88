// Package engine implements the session machinery shared by every
// backend: one pinned connection, the ambient/prepared/cursor result
// slots, parameter marshaling, the autocommit trap and value retrieval.
// Backend packages supply a Dialect and embed a Session.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/esql-go/esql/cobol"
	"github.com/esql-go/esql/dberr"
	"github.com/esql-go/esql/driver"
	"github.com/esql-go/esql/internal/debug"
)

// preparedStmt is one entry of the prepared-statement table. Entries are
// never dropped; their lifetime is the connection's.
type preparedStmt struct {
	source string
	stmt   *sqlx.Stmt
	rs     *ResultSet
}

// Session holds the per-driver-instance state. It is not safe for
// concurrent use; the caller serializes access, and the engine issues at
// most one backend call at a time.
type Session struct {
	dialect Dialect
	log     *slog.Logger

	db   *sqlx.DB
	conn *sqlx.Conn
	dsi  *driver.DataSourceInfo
	opts *driver.ConnectionOptions

	status   dberr.Status
	ambient  *ResultSet
	prepared map[string]*preparedStmt
	cursors  map[string]*driver.Cursor

	decodeBinary  bool
	nativeCursors bool
}

// NewSession returns a disconnected session for the given dialect.
func NewSession(d Dialect) *Session {
	s := &Session{dialect: d, log: debug.Logger()}
	s.clearTables()
	s.status.Clear()
	return s
}

func (s *Session) clearTables() {
	s.ambient = nil
	s.prepared = map[string]*preparedStmt{}
	s.cursors = map[string]*driver.Cursor{}
}

// Init retains the logger and resets the session state.
func (s *Session) Init(logger *slog.Logger) error {
	if logger == nil {
		logger = debug.Logger()
	}
	s.log = logger.With("driver", s.dialect.Name(), "session", uuid.NewString())
	s.status.Clear()
	s.log.Debug("driver initialized")
	return nil
}

// Log returns the session logger.
func (s *Session) Log() *slog.Logger { return s.log }

// Conn exposes the pinned connection for backend-specific capabilities
// such as schema introspection.
func (s *Session) Conn() *sqlx.Conn { return s.conn }

// Connect tears down any previous connection, opens a new one pinned to a
// single backend session, and applies the connection-scoped settings in
// order: client encoding, default schema, initial transaction. Each of
// those is a hard failure.
func (s *Session) Connect(dsi *driver.DataSourceInfo, opts *driver.ConnectionOptions) error {
	if opts == nil {
		opts = &driver.ConnectionOptions{}
	}

	s.teardown()
	s.status.Clear()

	dsn, err := s.dialect.BuildDSN(dsi, opts)
	if err != nil {
		return s.status.SetError(dberr.Wrap(dberr.ErrConnectionFailed, dberr.CodeConnectionFailed, dberr.StateGeneral, err))
	}

	s.log.Debug("connecting", "host", dsi.Host, "port", dsi.Port, "dbname", dsi.DbName,
		"autocommit", opts.AutoCommit == driver.AutoCommitOn, "encoding", opts.ClientEncoding)

	ctx := context.Background()

	db, err := sqlx.Open(s.dialect.DriverName(), dsn)
	if err != nil {
		return s.connectFailed(err)
	}

	conn, err := db.Connx(ctx)
	if err != nil {
		db.Close()
		return s.connectFailed(err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return s.connectFailed(err)
	}

	fail := func(err error) error {
		conn.Close()
		db.Close()
		return s.connectFailed(err)
	}

	if opts.ClientEncoding != "" {
		if stmt, ok := s.dialect.ClientEncodingStmt(opts.ClientEncoding); ok {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				return fail(err)
			}
		}
	}

	if schema, ok := dsi.Option("default_schema"); ok && schema != "" {
		if stmt, ok := s.dialect.DefaultSchemaStmt(schema); ok {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				return fail(err)
			}
		}
	}

	if opts.AutoCommit == driver.AutoCommitOff && s.dialect.BeginStmt() != "" {
		s.log.Debug("autocommit is off, starting initial transaction")
		if _, err := conn.ExecContext(ctx, s.dialect.BeginStmt()); err != nil {
			return fail(err)
		}
	}

	s.decodeBinary = true
	if v, ok := dsi.Option("decode_binary"); ok {
		s.decodeBinary = driver.ParseBoolOption(v, s.decodeBinary)
	}
	s.nativeCursors = s.dialect.SupportsNativeCursors()
	if v, ok := dsi.Option("native_cursors"); ok {
		s.nativeCursors = driver.ParseBoolOption(v, s.nativeCursors) && s.dialect.SupportsNativeCursors()
	}

	s.db = db
	s.conn = conn
	s.dsi = dsi
	s.opts = opts
	s.clearTables()

	return nil
}

func (s *Session) connectFailed(err error) error {
	_, state := s.dialect.TranslateError(err)
	s.log.Error("connect failed", "err", err)
	return s.status.SetError(dberr.Wrap(dberr.ErrConnectionFailed, dberr.CodeConnectionFailed, state, err))
}

// teardown closes and nullifies the native handles.
func (s *Session) teardown() error {
	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	if s.db != nil {
		if cerr := s.db.Close(); err == nil {
			err = cerr
		}
		s.db = nil
	}
	s.clearTables()
	return err
}

// Terminate closes the connection.
func (s *Session) Terminate() error {
	s.status.Clear()
	if err := s.teardown(); err != nil {
		return s.status.SetError(dberr.Wrap(dberr.ErrConnectionFailed, dberr.CodeConnectionFailed, dberr.StateGeneral, err))
	}
	return nil
}

// Reset fully tears down the native handle; a failure here is reported as
// a reset failure, distinct from a connect failure.
func (s *Session) Reset() error {
	s.status.Clear()
	if err := s.teardown(); err != nil {
		return s.status.SetError(dberr.Wrap(dberr.ErrConnResetFailed, dberr.CodeConnResetFailed, dberr.StateGeneral, err))
	}
	return nil
}

// Exec runs an unnamed statement; its result lands in the ambient slot.
func (s *Session) Exec(sql string) error {
	s.status.Clear()
	return s.execStatement(nil, sql, nil)
}

// ExecParams runs an unnamed statement with host-variable parameters.
func (s *Session) ExecParams(sql string, types []cobol.VarType, values [][]byte, lengths []int, flags []uint32) error {
	s.status.Clear()
	args, err := MarshalParams(types, values, lengths, flags)
	if err != nil {
		s.log.Error("parameter marshaling failed", "err", err)
		return s.status.SetError(err.(*dberr.Error))
	}
	return s.execStatement(nil, sql, args)
}

// execStatement is the single execution path shared by direct execution,
// cursor opens and cursor fetches. target selects the result slot: the
// cursor's when non-nil, the ambient slot otherwise.
func (s *Session) execStatement(target *driver.Cursor, query string, args []any) error {
	if s.conn == nil {
		return s.status.SetError(dberr.New(dberr.ErrConnectionFailed, dberr.CodeConnectionFailed, dberr.StateGeneral, "not connected"))
	}

	q := query
	if s.opts.FixupParams && len(args) > 0 {
		q = FixupPlaceholders(q, s.dialect.Placeholders())
	}

	s.log.Debug("exec", "sql", q, "params", len(args))

	ctx := context.Background()
	termination := IsTxTermination(q)

	if target == nil {
		s.ambient = nil
	}

	var rs *ResultSet
	var execErr error

	if ReturnsRows(q) {
		rows, err := s.conn.QueryxContext(ctx, q, args...)
		if err != nil {
			execErr = err
		} else {
			rs, execErr = Materialize(rows)
		}
	} else {
		res, err := s.conn.ExecContext(ctx, q, args...)
		if err != nil {
			execErr = err
		} else {
			rs = NewResultSet()
			if n, aerr := res.RowsAffected(); aerr == nil {
				rs.NumRows = int(n)
			}
		}
	}

	// The autocommit trap: with autocommit off, a successful COMMIT or
	// ROLLBACK is immediately followed by a new transaction so the
	// caller never observes a "no active transaction" state.
	if termination && s.opts.AutoCommit == driver.AutoCommitOff && s.dialect.BeginStmt() != "" {
		s.ambient = nil
		if execErr == nil {
			s.log.Debug("transaction terminated, starting a new one")
			if _, err := s.conn.ExecContext(ctx, s.dialect.BeginStmt()); err != nil {
				return s.sqlFailure(err)
			}
			return nil
		}
		// a failed COMMIT/ROLLBACK surfaces unchanged below
	}

	if execErr != nil {
		return s.sqlFailure(execErr)
	}

	// An update or delete reporting success with zero affected rows is
	// indistinguishable from "found nothing" at the call site.
	if !ReturnsRows(q) && IsUpdateOrDelete(q) && rs.NumRows <= 0 {
		return s.status.SetError(dberr.New(dberr.ErrNoData, dberr.CodeNoData, dberr.StateNoData, "no data"))
	}

	if target != nil {
		target.SetPrivateData(rs)
	} else {
		s.ambient = rs
	}
	return nil
}

func (s *Session) sqlFailure(err error) error {
	code, state := s.dialect.TranslateError(err)
	e := dberr.Wrap(dberr.ErrSQL, dberr.SQLCode(code), state, err)
	s.log.Error("sql error", "code", e.Code, "state", state, "err", err)
	return s.status.SetError(e)
}

// opFailure records detail in the status record and returns an error
// carrying the operation-level failure class on top of it.
func (s *Session) opFailure(kind error, code int, detail *dberr.Error) error {
	s.status.SetError(detail)
	return &dberr.Error{Code: code, State: detail.State, Message: detail.Message, Kind: kind, Cause: detail}
}

// opWrap re-tags an error already recorded in the status with the
// operation-level failure class.
func (s *Session) opWrap(kind error, code int, err error) error {
	return &dberr.Error{Code: code, State: s.status.State, Message: s.status.Message, Kind: kind, Cause: err}
}

// Prepare registers a named statement. Names are case-insensitive and
// duplicates fail.
func (s *Session) Prepare(name, sql string) error {
	s.status.Clear()
	if s.conn == nil {
		return s.status.SetError(dberr.New(dberr.ErrConnectionFailed, dberr.CodeConnectionFailed, dberr.StateGeneral, "not connected"))
	}

	key := strings.ToLower(name)
	if _, dup := s.prepared[key]; dup {
		return s.status.SetError(dberr.New(dberr.ErrPrepareFailed, dberr.CodePrepareFailed, dberr.StateGeneral,
			fmt.Sprintf("statement %q already prepared", key)))
	}

	src := sql
	if s.opts.FixupParams {
		src = FixupPlaceholders(src, s.dialect.Placeholders())
	}

	s.log.Debug("prepare", "name", key, "sql", src)

	stmt, err := s.conn.PreparexContext(context.Background(), src)
	if err != nil {
		_, state := s.dialect.TranslateError(err)
		return s.status.SetError(dberr.Wrap(dberr.ErrPrepareFailed, dberr.CodePrepareFailed, state, err))
	}

	s.prepared[key] = &preparedStmt{source: src, stmt: stmt}
	return nil
}

// ExecPrepared runs a prepared statement, producing a fresh result set
// registered under the statement's name.
func (s *Session) ExecPrepared(name string, types []cobol.VarType, values [][]byte, lengths []int, flags []uint32) error {
	s.status.Clear()

	key := strings.ToLower(name)
	p, ok := s.prepared[key]
	if !ok {
		s.log.Error("invalid prepared statement name", "name", key)
		return s.status.SetError(dberr.New(dberr.ErrInvalidHandle, dberr.CodeInvalidHandle, dberr.StateGeneral,
			fmt.Sprintf("statement %q is not prepared", key)))
	}

	args, err := MarshalParams(types, values, lengths, flags)
	if err != nil {
		s.log.Error("parameter marshaling failed", "err", err)
		return s.status.SetError(err.(*dberr.Error))
	}

	s.log.Debug("exec prepared", "name", key, "params", len(args))

	ctx := context.Background()
	var rs *ResultSet

	if ReturnsRows(p.source) {
		rows, qerr := p.stmt.QueryxContext(ctx, args...)
		if qerr == nil {
			rs, qerr = Materialize(rows)
		}
		if qerr != nil {
			return s.sqlFailure(qerr)
		}
	} else {
		res, xerr := p.stmt.ExecContext(ctx, args...)
		if xerr != nil {
			return s.sqlFailure(xerr)
		}
		rs = NewResultSet()
		if n, aerr := res.RowsAffected(); aerr == nil {
			rs.NumRows = int(n)
		}
	}

	p.rs = rs
	return nil
}

// PreparedSourceText resolves the stored source of a prepared statement,
// preferring the backend catalog when the dialect has one.
func (s *Session) PreparedSourceText(name string) (string, error) {
	var src string
	var ok bool
	var err error
	if s.conn != nil {
		src, ok, err = s.dialect.PreparedSource(context.Background(), s.conn, name)
	}
	if err != nil {
		if de, isDE := err.(*dberr.Error); isDE {
			return "", s.status.SetError(de)
		}
		return "", s.sqlFailure(err)
	}
	if ok {
		return src, nil
	}

	p, found := s.prepared[strings.ToLower(name)]
	if !found {
		return "", s.status.SetError(dberr.New(dberr.ErrInvalidHandle, dberr.CodeInvalidHandle, dberr.StateNotFound,
			fmt.Sprintf("%q not found", name)))
	}
	return p.source, nil
}

// MoveToFirstRecord verifies the selected result has at least one row.
// An empty name selects the ambient result.
func (s *Session) MoveToFirstRecord(stmtName string) error {
	s.status.Clear()

	var rs *ResultSet
	if stmtName == "" {
		rs = s.ambient
	} else {
		p, ok := s.prepared[strings.ToLower(stmtName)]
		if !ok {
			s.log.Error("invalid prepared statement name", "name", stmtName)
			return s.status.SetError(dberr.New(dberr.ErrMoveToFirstFailed, dberr.CodeMoveToFirstFailed,
				dberr.StateGeneral, "invalid statement reference"))
		}
		rs = p.rs
	}

	if rs == nil {
		return s.status.SetError(dberr.New(dberr.ErrMoveToFirstFailed, dberr.CodeMoveToFirstFailed,
			dberr.StateGeneral, "invalid statement reference"))
	}
	if rs.NumRows <= 0 {
		return s.status.SetError(dberr.New(dberr.ErrNoData, dberr.CodeNoData, dberr.StateNoData, "no data"))
	}
	return nil
}

// NumRows returns the row/affected count of the cursor's result, or the
// ambient one when c is nil.
func (s *Session) NumRows(c *driver.Cursor) int {
	rs := s.contextResult(c)
	if rs == nil {
		return -1
	}
	return rs.NumRows
}

// NumFields returns the column count of the cursor's result, or the
// ambient one when c is nil.
func (s *Session) NumFields(c *driver.Cursor) int {
	rs := s.contextResult(c)
	if rs == nil {
		return -1
	}
	return len(rs.Columns)
}

func (s *Session) contextResult(c *driver.Cursor) *ResultSet {
	if c == nil {
		return s.ambient
	}
	rs, _ := c.PrivateData().(*ResultSet)
	return rs
}

// LastError returns the message of the most recent operation's status.
func (s *Session) LastError() string { return s.status.Message }

// LastCode returns the numeric code of the most recent operation's status.
func (s *Session) LastCode() int { return s.status.Code }

// LastState returns the SQLSTATE of the most recent operation's status.
func (s *Session) LastState() string { return s.status.State }

// NativeFeatures reports the dialect's capability bitmask.
func (s *Session) NativeFeatures() driver.NativeFeature { return s.dialect.Features() }

// SetProperty is unsupported unless a backend overrides it.
func (s *Session) SetProperty(name string, value any) driver.PropertyResult {
	return driver.PropertyUnsupported
}
