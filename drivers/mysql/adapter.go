// Package mysql implements the MySQL backend on top of go-sql-driver.
// MySQL has no server-side scrollable cursors, so cursors are always
// emulated client-side.
package mysql

import (
	"errors"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/esql-go/esql/dberr"
	"github.com/esql-go/esql/driver"
	"github.com/esql-go/esql/internal/engine"
)

// Driver is the MySQL backend.
type Driver struct {
	*engine.Session
}

// New returns a disconnected MySQL driver instance.
func New() *Driver {
	return &Driver{Session: engine.NewSession(&dialect{})}
}

// DSN parameters the engine passes through from the data source options.
var passthroughOptions = []string{
	"charset", "collation", "tls", "allowCleartextPasswords", "readTimeout", "writeTimeout",
}

type dialect struct {
	engine.BaseDialect
}

func (dialect) Name() string { return "mysql" }

func (dialect) DriverName() string { return "mysql" }

func (dialect) BuildDSN(dsi *driver.DataSourceInfo, _ *driver.ConnectionOptions) (string, error) {
	cfg := gomysql.NewConfig()
	cfg.User = dsi.Username
	cfg.Passwd = dsi.Password
	cfg.Net = "tcp"
	cfg.Addr = dsi.Host
	if dsi.Port != 0 {
		cfg.Addr = fmt.Sprintf("%s:%d", dsi.Host, dsi.Port)
	}
	cfg.DBName = dsi.DbName

	if v, ok := dsi.Option("connect_timeout"); ok {
		if secs, err := time.ParseDuration(v + "s"); err == nil {
			cfg.Timeout = secs
		}
	}

	for _, k := range passthroughOptions {
		if v, ok := dsi.Option(k); ok {
			if cfg.Params == nil {
				cfg.Params = map[string]string{}
			}
			cfg.Params[k] = v
		}
	}

	return cfg.FormatDSN(), nil
}

func (dialect) BeginStmt() string { return "START TRANSACTION" }

func (dialect) ClientEncodingStmt(encoding string) (string, bool) {
	return "SET NAMES " + encoding, true
}

func (dialect) DefaultSchemaStmt(schema string) (string, bool) {
	return "USE " + schema, true
}

func (dialect) TranslateError(err error) (int, string) {
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		state := string(myErr.SQLState[:])
		if state == "\x00\x00\x00\x00\x00" || state == "" {
			state = dberr.StateGeneral
		}
		return int(myErr.Number), state
	}
	return 1, dberr.StateGeneral
}

func (dialect) Features() driver.NativeFeature { return driver.FeatureRowCount }

var _ driver.Driver = (*Driver)(nil)
