package engine

import (
	"context"
	"encoding/hex"

	"github.com/jmoiron/sqlx"

	"github.com/esql-go/esql/driver"
)

// Dialect captures what actually differs between backends. Everything
// else (parameter marshaling, the statement and cursor registries, the
// autocommit trap, value retrieval) lives in Session and is shared.
type Dialect interface {
	// Name is the logical backend name (pgsql, mysql, ...).
	Name() string

	// DriverName is the database/sql driver to open.
	DriverName() string

	// BuildDSN composes the driver DSN from the data source and the
	// backend's allow-listed passthrough options.
	BuildDSN(dsi *driver.DataSourceInfo, opts *driver.ConnectionOptions) (string, error)

	// Placeholders is the positional parameter syntax the backend wants.
	Placeholders() PlaceholderStyle

	// BeginStmt is the statement that opens an explicit transaction, or
	// "" when the backend is natively transactional and needs no
	// autocommit emulation.
	BeginStmt() string

	// ClientEncodingStmt returns the statement applying a client
	// encoding, or ok=false when the backend has no such knob.
	ClientEncodingStmt(encoding string) (string, bool)

	// DefaultSchemaStmt returns the backend's "set search path" style
	// statement, or ok=false when the backend has none.
	DefaultSchemaStmt(schema string) (string, bool)

	// SupportsNativeCursors reports whether the backend can declare
	// server-side cursors.
	SupportsNativeCursors() bool

	// PreparedSource fetches the stored source text of a prepared
	// statement from the backend's own catalog, keyed case-insensitively.
	// ok=false means the backend has no such catalog and the engine
	// falls back to its session-local source table.
	PreparedSource(ctx context.Context, conn *sqlx.Conn, name string) (src string, ok bool, err error)

	// TranslateError maps a backend-native failure to a native status
	// code and a SQLSTATE.
	TranslateError(err error) (code int, state string)

	// BinaryText renders a binary cell the way the backend's textual
	// protocol would, used when binary decoding is switched off.
	BinaryText(data []byte) []byte

	// Features is the backend's native-capability bitmask.
	Features() driver.NativeFeature
}

// BaseDialect supplies the defaults shared by most backends; concrete
// dialects embed it and override what differs.
type BaseDialect struct{}

func (BaseDialect) Placeholders() PlaceholderStyle { return PlaceholderQuestion }

func (BaseDialect) BeginStmt() string { return "" }

func (BaseDialect) ClientEncodingStmt(string) (string, bool) { return "", false }

func (BaseDialect) DefaultSchemaStmt(string) (string, bool) { return "", false }

func (BaseDialect) SupportsNativeCursors() bool { return false }

func (BaseDialect) PreparedSource(context.Context, *sqlx.Conn, string) (string, bool, error) {
	return "", false, nil
}

func (BaseDialect) BinaryText(data []byte) []byte {
	out := make([]byte, hex.EncodedLen(len(data)))
	hex.Encode(out, data)
	return out
}

func (BaseDialect) Features() driver.NativeFeature { return 0 }
