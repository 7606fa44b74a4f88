// Package pgsql implements the PostgreSQL backend on top of lib/pq.
// It is the only backend with server-side cursor support and a catalog
// of prepared-statement sources (pg_prepared_statements).
package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/esql-go/esql/dberr"
	"github.com/esql-go/esql/driver"
	"github.com/esql-go/esql/internal/engine"
)

// Driver is the PostgreSQL backend.
type Driver struct {
	*engine.Session
}

// New returns a disconnected PostgreSQL driver instance.
func New() *Driver {
	return &Driver{Session: engine.NewSession(&dialect{})}
}

// libpq connection keywords the engine passes through from the data
// source options; everything else is silently dropped.
var passthroughOptions = []string{
	"hostaddr", "connect_timeout", "application_name",
	"keepalives", "keepalives_idle", "keepalives_interval", "keepalives_count",
	"sslmode", "requiressl", "sslcert", "sslkey", "sslrootcert", "sslcrl",
	"krbsrvname", "gsslib", "service",
}

// libpq reports result statuses, not numeric error codes; failed queries
// surface as a fatal-error status.
const pgFatalError = 7

type dialect struct {
	engine.BaseDialect
}

func (dialect) Name() string { return "pgsql" }

func (dialect) DriverName() string { return "postgres" }

func (dialect) BuildDSN(dsi *driver.DataSourceInfo, _ *driver.ConnectionOptions) (string, error) {
	params := make([]string, 0, 8)
	add := func(k, v string) {
		if v != "" {
			params = append(params, k+"="+quoteConnValue(v))
		}
	}

	add("dbname", dsi.DbName)
	add("host", dsi.Host)
	if dsi.Port != 0 {
		add("port", strconv.Itoa(dsi.Port))
	}
	add("user", dsi.Username)
	add("password", dsi.Password)

	for _, k := range passthroughOptions {
		if v, ok := dsi.Option(k); ok {
			add(k, v)
		}
	}

	return strings.Join(params, " "), nil
}

// quoteConnValue quotes a conninfo value when it contains whitespace or
// quote characters.
func quoteConnValue(v string) string {
	if !strings.ContainsAny(v, " \t'\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func (dialect) Placeholders() engine.PlaceholderStyle { return engine.PlaceholderDollar }

func (dialect) BeginStmt() string { return "START TRANSACTION" }

func (dialect) ClientEncodingStmt(encoding string) (string, bool) {
	return "SET client_encoding TO '" + encoding + "'", true
}

func (dialect) DefaultSchemaStmt(schema string) (string, bool) {
	return "SET search_path TO " + schema, true
}

func (dialect) SupportsNativeCursors() bool { return true }

func (dialect) PreparedSource(ctx context.Context, conn *sqlx.Conn, name string) (string, bool, error) {
	rows, err := conn.QueryxContext(ctx,
		"select statement from pg_prepared_statements where lower(name) = lower($1)", name)
	if err != nil {
		return "", true, err
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return "", true, err
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return "", true, err
	}

	if len(sources) != 1 {
		return "", true, dberr.New(dberr.ErrInvalidHandle, dberr.CodeInvalidHandle, dberr.StateNotFound,
			fmt.Sprintf("%q not found", name))
	}
	return sources[0], true, nil
}

func (dialect) TranslateError(err error) (int, string) {
	if pqErr, ok := err.(*pq.Error); ok {
		state := string(pqErr.Code)
		if state == "" {
			state = dberr.StateGeneral
		}
		return pgFatalError, state
	}
	return pgFatalError, dberr.StateGeneral
}

// BinaryText renders a bytea cell in PostgreSQL's textual hex form, used
// when binary decoding is switched off.
func (dialect) BinaryText(data []byte) []byte {
	out := make([]byte, 2, 2+len(data)*2)
	out[0], out[1] = '\\', 'x'
	return append(out, []byte(fmt.Sprintf("%x", data))...)
}

func (dialect) Features() driver.NativeFeature { return driver.FeatureRowCount }

var _ driver.Driver = (*Driver)(nil)
