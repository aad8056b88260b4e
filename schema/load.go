package schema

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/biyonik/go-fluent-dao/internal/validation"
)

const (
	listTablesSQL = "SELECT TABLE_NAME FROM information_schema.`TABLES` " +
		"WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME"

	listColumnsSQL = "SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_KEY, COLUMN_COMMENT, ORDINAL_POSITION " +
		"FROM information_schema.`COLUMNS` " +
		"WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION"
)

// Querier runs metadata queries. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Load reflects the given tables of database, or every table when none is named.
// Naming a table that does not exist, or reflecting a database without tables,
// fails with ErrTableNotFound.
//
// Caller-named tables must be plain identifiers. Names listed by the server are
// taken as they are; the grammar quotes them when rendering.
func Load(ctx context.Context, q Querier, database string, tables ...string) (*Catalog, error) {
	if database == "" {
		return nil, &SchemaError{Err: fmt.Errorf("%w: empty database name", ErrSchema)}
	}

	for _, name := range tables {
		if err := validation.ValidateTable(name); err != nil {
			return nil, &SchemaError{Table: name, Err: err}
		}
	}

	names := tables
	if len(names) == 0 {
		var err error
		names, err = listTables(ctx, q, database)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, &SchemaError{Err: fmt.Errorf("%w: database %s has no tables", ErrTableNotFound, database)}
		}
	}

	reflected := make([]*TableSchema, 0, len(names))
	for _, name := range names {
		t, err := loadTable(ctx, q, database, name)
		if err != nil {
			return nil, err
		}
		reflected = append(reflected, t)
	}

	return NewCatalog(database, reflected...), nil
}

func listTables(ctx context.Context, q Querier, database string) ([]string, error) {
	rows, err := q.QueryContext(ctx, listTablesSQL, database)
	if err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("list tables of %s: %w", database, err)}
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &SchemaError{Err: fmt.Errorf("scan table name: %w", err)}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("iterate table names: %w", err)}
	}
	return names, nil
}

func loadTable(ctx context.Context, q Querier, database, table string) (*TableSchema, error) {
	rows, err := q.QueryContext(ctx, listColumnsSQL, database, table)
	if err != nil {
		return nil, &SchemaError{Table: table, Err: fmt.Errorf("query columns: %w", err)}
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var (
			col           ColumnInfo
			nullable, key string
			comment       sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.SQLType, &nullable, &key, &comment, &col.OrdinalPosition); err != nil {
			return nil, &SchemaError{Table: table, Err: fmt.Errorf("scan column: %w", err)}
		}
		col.Nullable = nullable == "YES"
		col.IsPrimaryKey = key == "PRI"
		col.Comment = comment.String
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, &SchemaError{Table: table, Err: fmt.Errorf("iterate columns: %w", err)}
	}

	if len(columns) == 0 {
		return nil, &SchemaError{Table: table, Err: ErrTableNotFound}
	}
	return NewTableSchema(table, columns), nil
}
