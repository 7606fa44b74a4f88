// Package oracle implements the Oracle backend on top of sijms/go-ora.
// The database name is the service name. Oracle opens transactions
// implicitly, so COMMIT and ROLLBACK pass through without autocommit
// emulation; cursors are emulated client-side.
package oracle

import (
	"errors"

	goora "github.com/sijms/go-ora/v2"
	"github.com/sijms/go-ora/v2/network"

	"github.com/esql-go/esql/dberr"
	"github.com/esql-go/esql/driver"
	"github.com/esql-go/esql/internal/engine"
)

// Driver is the Oracle backend.
type Driver struct {
	*engine.Session
}

// New returns a disconnected Oracle driver instance.
func New() *Driver {
	return &Driver{Session: engine.NewSession(&dialect{})}
}

// URL options the engine passes through from the data source options.
var passthroughOptions = []string{
	"ssl", "ssl verify", "wallet", "timeout", "trace file",
}

type dialect struct {
	engine.BaseDialect
}

func (dialect) Name() string { return "oracle" }

func (dialect) DriverName() string { return "oracle" }

func (dialect) BuildDSN(dsi *driver.DataSourceInfo, _ *driver.ConnectionOptions) (string, error) {
	urlOptions := map[string]string{}
	for _, k := range passthroughOptions {
		if v, ok := dsi.Option(k); ok {
			urlOptions[k] = v
		}
	}

	port := dsi.Port
	if port == 0 {
		port = 1521
	}

	return goora.BuildUrl(dsi.Host, port, dsi.DbName, dsi.Username, dsi.Password, urlOptions), nil
}

func (dialect) Placeholders() engine.PlaceholderStyle { return engine.PlaceholderColon }

func (dialect) DefaultSchemaStmt(schema string) (string, bool) {
	return "ALTER SESSION SET CURRENT_SCHEMA = " + schema, true
}

func (dialect) TranslateError(err error) (int, string) {
	var oraErr *network.OracleError
	if errors.As(err, &oraErr) {
		return oraErr.ErrCode, dberr.StateGeneral
	}
	return 1, dberr.StateGeneral
}

func (dialect) Features() driver.NativeFeature { return driver.FeatureRowCount }

var _ driver.Driver = (*Driver)(nil)
