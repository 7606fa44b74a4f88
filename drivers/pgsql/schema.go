package pgsql

import (
	"context"
	"fmt"

	"github.com/esql-go/esql/driver"
)

// Schemas lists the catalog's schemas, skipping PostgreSQL's internal
// namespaces.
func (d *Driver) Schemas() ([]driver.SchemaInfo, error) {
	rows, err := d.Conn().QueryxContext(context.Background(), `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT LIKE 'pg_%' AND schema_name <> 'information_schema'
		ORDER BY schema_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schemas: %w", err)
	}
	defer rows.Close()

	var out []driver.SchemaInfo
	for rows.Next() {
		var s driver.SchemaInfo
		if err := rows.Scan(&s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Tables lists the base tables of a schema.
func (d *Driver) Tables(schema string) ([]driver.TableInfo, error) {
	rows, err := d.Conn().QueryxContext(context.Background(), `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE' AND table_schema = $1
		ORDER BY table_name`, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var out []driver.TableInfo
	for rows.Next() {
		var t driver.TableInfo
		if err := rows.Scan(&t.Schema, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Columns lists the columns of a table in ordinal order.
func (d *Driver) Columns(schema, table string) ([]driver.ColumnInfo, error) {
	rows, err := d.Conn().QueryxContext(context.Background(), `
		SELECT column_name, data_type,
		       COALESCE(character_maximum_length, 0),
		       COALESCE(numeric_precision, 0),
		       COALESCE(numeric_scale, 0),
		       is_nullable = 'YES',
		       ordinal_position
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var out []driver.ColumnInfo
	for rows.Next() {
		c := driver.ColumnInfo{Schema: schema, Table: table}
		if err := rows.Scan(&c.Name, &c.TypeName, &c.Length, &c.Precision, &c.Scale, &c.Nullable, &c.Ordinal); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Indexes lists the indexes of a table with their key columns.
func (d *Driver) Indexes(schema, table string) ([]driver.IndexInfo, error) {
	rows, err := d.Conn().QueryxContext(context.Background(), `
		SELECT i.relname, ix.indisunique, ix.indisprimary, a.attname
		FROM pg_class t
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE n.nspname = $1 AND t.relname = $2
		ORDER BY i.relname, a.attnum`, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	byName := map[string]*driver.IndexInfo{}
	var order []string
	for rows.Next() {
		var name, column string
		var unique, primary bool
		if err := rows.Scan(&name, &unique, &primary, &column); err != nil {
			return nil, err
		}
		idx, ok := byName[name]
		if !ok {
			idx = &driver.IndexInfo{Schema: schema, Table: table, Name: name, Unique: unique, Primary: primary}
			byName[name] = idx
			order = append(order, name)
		}
		idx.Columns = append(idx.Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]driver.IndexInfo, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out, nil
}

var _ driver.SchemaManager = (*Driver)(nil)
