package esql

import (
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"github.com/esql-go/esql/driver"
	"github.com/esql-go/esql/drivers/mysql"
	"github.com/esql-go/esql/drivers/odbc"
	"github.com/esql-go/esql/drivers/oracle"
	"github.com/esql-go/esql/drivers/pgsql"
	"github.com/esql-go/esql/drivers/sqlite"
	"github.com/esql-go/esql/internal/debug"
)

// backends is the static, fixed enumeration of available drivers. The
// original runtime resolved each name to a libgixsql-<name> shared
// module at run time; here the backends are linked in and the factory
// binds a constructor once per name.
var backends = map[string]func() driver.Driver{
	"pgsql":  func() driver.Driver { return pgsql.New() },
	"odbc":   func() driver.Driver { return odbc.New() },
	"mysql":  func() driver.Driver { return mysql.New() },
	"oracle": func() driver.Driver { return oracle.New() },
	"sqlite": func() driver.Driver { return sqlite.New() },
}

// NewDriver resolves a logical backend name, creates a driver instance
// and initializes it with the given logger (the package default when
// nil). It returns no instance when the name is unknown or when the
// instance's Init fails.
func NewDriver(name string, logger *slog.Logger) (driver.Driver, error) {
	if logger == nil {
		logger = debug.Logger()
	}

	ctor, ok := backends[name]
	if !ok {
		logger.Error("unknown db provider", "name", name, "module", ModuleName(name))
		return nil, fmt.Errorf("esql: unknown driver %q", name)
	}

	logger.Debug("loading db provider", "name", name, "module", ModuleName(name))

	d := ctor()
	if err := d.Init(logger); err != nil {
		logger.Error("db provider init failed", "name", name, "err", err)
		return nil, fmt.Errorf("esql: init of driver %q failed: %w", name, err)
	}
	return d, nil
}

// Release terminates a driver instance. The caller must not use the
// instance afterwards.
func Release(d driver.Driver) error {
	if d == nil {
		return nil
	}
	return d.Terminate()
}

// AvailableDrivers lists the logical backend names the factory resolves.
func AvailableDrivers() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModuleName reports the platform-specific shared-module filename the
// portable call sequence associates with a backend name.
func ModuleName(name string) string {
	switch runtime.GOOS {
	case "windows":
		return "libgixsql-" + name + ".dll"
	case "darwin":
		return "libgixsql-" + name + ".dylib"
	default:
		return "libgixsql-" + name + ".so"
	}
}
