// Package schema reflects MySQL table metadata from information_schema and keeps
// it in a read-only Catalog shared by every accessor of a database.
package schema

import (
	"fmt"
	"sort"
)

// ColumnInfo describes one column as reported by information_schema.COLUMNS.
type ColumnInfo struct {
	Name            string `json:"name"`
	SQLType         string `json:"type"`
	Nullable        bool   `json:"nullable"`
	IsPrimaryKey    bool   `json:"primary_key"`
	Comment         string `json:"comment,omitempty"`
	OrdinalPosition int    `json:"position"`
}

// TableSchema is the ordered column list of one table.
type TableSchema struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`

	index map[string]int
}

// NewTableSchema orders columns by ordinal position and indexes them by name.
func NewTableSchema(name string, columns []ColumnInfo) *TableSchema {
	cols := append([]ColumnInfo(nil), columns...)
	sort.SliceStable(cols, func(i, j int) bool {
		return cols[i].OrdinalPosition < cols[j].OrdinalPosition
	})

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c.Name] = i
	}
	return &TableSchema{Name: name, Columns: cols, index: index}
}

// ColumnNames returns the column names in ordinal order.
func (t *TableSchema) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name.
func (t *TableSchema) Column(name string) (ColumnInfo, bool) {
	if t.index != nil {
		i, ok := t.index[name]
		if !ok {
			return ColumnInfo{}, false
		}
		return t.Columns[i], true
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// HasColumn reports whether the table has a column called name.
func (t *TableSchema) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// RequireColumn returns the named column or a SchemaError wrapping ErrColumnNotFound.
func (t *TableSchema) RequireColumn(name string) (ColumnInfo, error) {
	c, ok := t.Column(name)
	if !ok {
		return ColumnInfo{}, &SchemaError{Table: t.Name, Column: name, Err: ErrColumnNotFound}
	}
	return c, nil
}

// PrimaryKey returns the single primary-key column. Tables without a primary key
// or with a composite one are rejected.
func (t *TableSchema) PrimaryKey() (ColumnInfo, error) {
	var (
		pk    ColumnInfo
		found int
	)
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pk = c
			found++
		}
	}

	switch found {
	case 0:
		return ColumnInfo{}, &SchemaError{Table: t.Name, Err: ErrNoPrimaryKey}
	case 1:
		return pk, nil
	default:
		return ColumnInfo{}, &SchemaError{Table: t.Name, Err: fmt.Errorf("%w (%d key columns)", ErrCompositePrimaryKey, found)}
	}
}

// Catalog maps table names to their schema for one database.
// It is never modified after construction and may be shared between goroutines.
type Catalog struct {
	database string
	tables   map[string]*TableSchema
}

// NewCatalog builds a catalog from already reflected tables.
func NewCatalog(database string, tables ...*TableSchema) *Catalog {
	c := &Catalog{
		database: database,
		tables:   make(map[string]*TableSchema, len(tables)),
	}
	for _, t := range tables {
		if t.index == nil {
			t = NewTableSchema(t.Name, t.Columns)
		}
		c.tables[t.Name] = t
	}
	return c
}

// Database returns the schema name the catalog was loaded from.
func (c *Catalog) Database() string {
	return c.database
}

// Tables returns the table names in lexical order.
func (c *Catalog) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns the schema of a table.
func (c *Catalog) Table(name string) (*TableSchema, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, &SchemaError{Table: name, Err: ErrTableNotFound}
	}
	return t, nil
}

// ColumnsOf returns the ordered column names of a table.
func (c *Catalog) ColumnsOf(table string) ([]string, error) {
	t, err := c.Table(table)
	if err != nil {
		return nil, err
	}
	return t.ColumnNames(), nil
}

// PrimaryKeyOf returns the primary-key column name of a table.
func (c *Catalog) PrimaryKeyOf(table string) (string, error) {
	t, err := c.Table(table)
	if err != nil {
		return "", err
	}
	pk, err := t.PrimaryKey()
	if err != nil {
		return "", err
	}
	return pk.Name, nil
}
