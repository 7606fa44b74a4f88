// Package sqlite implements the SQLite backend on top of mattn/go-sqlite3.
// The database name is a file path (or :memory:); host, port and
// credentials are ignored. Cursors are always emulated.
package sqlite

import (
	"errors"
	"net/url"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/esql-go/esql/dberr"
	"github.com/esql-go/esql/driver"
	"github.com/esql-go/esql/internal/engine"
)

// Driver is the SQLite backend.
type Driver struct {
	*engine.Session
}

// New returns a disconnected SQLite driver instance.
func New() *Driver {
	return &Driver{Session: engine.NewSession(&dialect{})}
}

// DSN parameters the engine passes through from the data source options.
var passthroughOptions = []string{
	"mode", "cache", "immutable",
	"_busy_timeout", "_journal_mode", "_foreign_keys", "_synchronous", "_loc",
}

type dialect struct {
	engine.BaseDialect
}

func (dialect) Name() string { return "sqlite" }

func (dialect) DriverName() string { return "sqlite3" }

func (dialect) BuildDSN(dsi *driver.DataSourceInfo, _ *driver.ConnectionOptions) (string, error) {
	if dsi.DbName == "" {
		return "", errors.New("sqlite: database file name is empty")
	}

	params := url.Values{}
	for _, k := range passthroughOptions {
		if v, ok := dsi.Option(k); ok {
			params.Set(k, v)
		}
	}

	if len(params) == 0 {
		return dsi.DbName, nil
	}

	name := dsi.DbName
	if strings.HasPrefix(name, "file:") {
		return name + "?" + params.Encode(), nil
	}
	return "file:" + name + "?" + params.Encode(), nil
}

func (dialect) BeginStmt() string { return "BEGIN TRANSACTION" }

func (dialect) TranslateError(err error) (int, string) {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return int(sqErr.Code), dberr.StateGeneral
	}
	return 1, dberr.StateGeneral
}

func (dialect) Features() driver.NativeFeature { return driver.FeatureRowCount }

var _ driver.Driver = (*Driver)(nil)
