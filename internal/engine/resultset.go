package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Value is one materialized result cell.
type Value struct {
	Data   []byte
	Null   bool
	Binary bool
}

// ResultSet is the engine-managed state around one backend result: the
// materialized rows (or the affected-row count for non-query statements),
// the cached row count and the cursor position.
type ResultSet struct {
	Columns []string
	Rows    [][]Value

	// CurrentRow is -1 until a fetch positions the result.
	CurrentRow int

	// NumRows caches the row count for queries and the affected-row
	// count for everything else.
	NumRows int
}

// NewResultSet returns an unpositioned, empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{CurrentRow: -1}
}

// binaryTypes lists the database type names whose cells hold raw bytes
// rather than text.
var binaryTypes = map[string]bool{
	"BYTEA": true, "BLOB": true, "TINYBLOB": true, "MEDIUMBLOB": true,
	"LONGBLOB": true, "BINARY": true, "VARBINARY": true, "RAW": true,
	"LONG RAW": true,
}

// Materialize drains rows into a fully client-side result set. The rows
// handle is closed before returning on every path.
func Materialize(rows *sqlx.Rows) (*ResultSet, error) {
	defer rows.Close()

	rs := NewResultSet()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	rs.Columns = cols

	// drivers disagree on type-name casing, sqlite3 reports the declared
	// type verbatim
	binary := make([]bool, len(cols))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, t := range types {
			binary[i] = binaryTypes[strings.ToUpper(t.DatabaseTypeName())]
		}
	}

	for rows.Next() {
		raw, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		row := make([]Value, len(raw))
		for i, v := range raw {
			row[i] = toValue(v, binary[i])
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rs.NumRows = len(rs.Rows)
	return rs, nil
}

// toValue normalizes one driver-provided cell into its byte encoding.
func toValue(v any, binary bool) Value {
	switch x := v.(type) {
	case nil:
		return Value{Null: true}
	case []byte:
		data := make([]byte, len(x))
		copy(data, x)
		return Value{Data: data, Binary: binary}
	case string:
		return Value{Data: []byte(x), Binary: binary}
	case int64:
		return Value{Data: []byte(strconv.FormatInt(x, 10))}
	case float64:
		return Value{Data: []byte(strconv.FormatFloat(x, 'f', -1, 64))}
	case bool:
		if x {
			return Value{Data: []byte("1")}
		}
		return Value{Data: []byte("0")}
	case time.Time:
		return Value{Data: []byte(x.Format("2006-01-02 15:04:05"))}
	default:
		return Value{Data: []byte(fmt.Sprintf("%v", x))}
	}
}
