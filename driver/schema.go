package driver

// SchemaManager is an optional capability: backends that can introspect
// their catalog implement it alongside Driver. Callers type-assert.
type SchemaManager interface {
	Schemas() ([]SchemaInfo, error)
	Tables(schema string) ([]TableInfo, error)
	Columns(schema, table string) ([]ColumnInfo, error)
	Indexes(schema, table string) ([]IndexInfo, error)
}

// SchemaInfo describes a schema (namespace) in the catalog.
type SchemaInfo struct {
	Name string
}

// TableInfo describes a table.
type TableInfo struct {
	Schema string
	Name   string
}

// ColumnInfo describes a table column.
type ColumnInfo struct {
	Schema    string
	Table     string
	Name      string
	TypeName  string
	Length    int
	Precision int
	Scale     int
	Nullable  bool
	Ordinal   int
}

// IndexInfo describes an index.
type IndexInfo struct {
	Schema  string
	Table   string
	Name    string
	Unique  bool
	Primary bool
	Columns []string
}
