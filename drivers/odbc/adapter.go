// Package odbc implements the ODBC backend on top of alexbrainman/odbc.
// The database name is either a DSN registered with the driver manager or
// a raw connection string when it already contains '='. Transaction
// control is delegated to the underlying ODBC driver, and cursors are
// emulated client-side.
package odbc

import (
	"errors"
	"fmt"
	"strings"

	aodbc "github.com/alexbrainman/odbc"

	"github.com/esql-go/esql/dberr"
	"github.com/esql-go/esql/driver"
	"github.com/esql-go/esql/internal/engine"
)

// Driver is the ODBC backend.
type Driver struct {
	*engine.Session
}

// New returns a disconnected ODBC driver instance.
func New() *Driver {
	return &Driver{Session: engine.NewSession(&dialect{})}
}

// Connection-string keywords the engine passes through from the data
// source options.
var passthroughOptions = []string{
	"driver", "server", "port", "database", "encrypt", "trustservercertificate",
}

type dialect struct {
	engine.BaseDialect
}

func (dialect) Name() string { return "odbc" }

func (dialect) DriverName() string { return "odbc" }

func (dialect) BuildDSN(dsi *driver.DataSourceInfo, _ *driver.ConnectionOptions) (string, error) {
	// A database name that already looks like a connection string is
	// used as-is, credentials appended.
	var parts []string
	if strings.Contains(dsi.DbName, "=") {
		parts = append(parts, dsi.DbName)
	} else {
		if dsi.DbName == "" {
			return "", errors.New("odbc: data source name is empty")
		}
		parts = append(parts, "DSN="+dsi.DbName)
	}

	if dsi.Username != "" {
		parts = append(parts, "UID="+dsi.Username)
	}
	if dsi.Password != "" {
		parts = append(parts, "PWD="+dsi.Password)
	}

	for _, k := range passthroughOptions {
		if v, ok := dsi.Option(k); ok {
			parts = append(parts, fmt.Sprintf("%s=%s", strings.ToUpper(k), v))
		}
	}

	return strings.Join(parts, ";"), nil
}

func (dialect) TranslateError(err error) (int, string) {
	var oErr *aodbc.Error
	if errors.As(err, &oErr) && len(oErr.Diag) > 0 {
		state := oErr.Diag[0].State
		if state == "" {
			state = dberr.StateGeneral
		}
		return oErr.Diag[0].NativeError, state
	}
	return 1, dberr.StateGeneral
}

var _ driver.Driver = (*Driver)(nil)
