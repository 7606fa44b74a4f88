package driver

// AutoCommitMode selects whether statements commit implicitly.
type AutoCommitMode int

const (
	AutoCommitOn AutoCommitMode = iota
	AutoCommitOff
)

// DataSourceInfo identifies the backend and the database to connect to.
// Options carries backend-native passthrough keys plus the engine's own
// behavioral switches (default_schema, decode_binary, native_cursors);
// each backend applies an allow-list and silently drops the rest.
type DataSourceInfo struct {
	Name     string // logical backend name: pgsql, odbc, mysql, oracle, sqlite
	Host     string
	Port     int
	DbName   string
	Username string
	Password string
	Options  map[string]string
}

// Option returns the named passthrough option, if present.
func (d *DataSourceInfo) Option(name string) (string, bool) {
	if d.Options == nil {
		return "", false
	}
	v, ok := d.Options[name]
	return v, ok
}

// ConnectionOptions carries the connection-scoped behavior requested by
// the embedded-SQL caller.
type ConnectionOptions struct {
	AutoCommit     AutoCommitMode
	ClientEncoding string

	// FixupParams rewrites ?/:name placeholders into the backend's
	// native positional syntax, skipping quoted string literals.
	FixupParams bool
}

// ParseBoolOption interprets a free-form on/off option value. Malformed
// or absent values keep the prior default.
func ParseBoolOption(v string, def bool) bool {
	switch v {
	case "on", "1", "true":
		return true
	case "off", "0", "false":
		return false
	}
	return def
}
