package fluentdao

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/biyonik/go-fluent-dao/dialect"
	"github.com/biyonik/go-fluent-dao/filter"
	"github.com/biyonik/go-fluent-dao/schema"
)

// Accessor, bir veritabanının şema kataloğu ile bağlantısını bir arada tutar ve
// tablo başına Table tutamaçları üretir.
//
// Accessor kurulduktan sonra değişmez; aynı örnek birden fazla goroutine
// tarafından paylaşılabilir.
type Accessor struct {
	db      QueryExecutor
	closer  io.Closer
	catalog *schema.Catalog

	grammar dialect.Grammar
	scanner Scanner
	logger  Logger
	debug   bool
	store   schema.SnapshotStore

	closed atomic.Bool
}

// New, hazır bir bağlantı ve katalog üzerinden Accessor oluşturur.
// Bağlantının yaşam döngüsü çağırana aittir; Close onu kapatmaz.
func New(db QueryExecutor, catalog *schema.Catalog, opts ...Option) (*Accessor, error) {
	if db == nil {
		return nil, &ConfigurationError{Field: "db", Reason: "nil executor"}
	}
	if catalog == nil {
		return nil, &ConfigurationError{Field: "catalog", Reason: "nil catalog"}
	}
	a := &Accessor{db: db, catalog: catalog}
	applyOptions(a, opts)
	a.logger = withDatabase(a.logger, catalog.Database())
	return a, nil
}

// Reflect, db üzerinden database şemasını yansıtır ve bir Accessor döndürür.
// Tables boşsa tüm tablolar yüklenir. WithSnapshotStore verilmişse katalog
// önce önbellekten okunur.
func Reflect(ctx context.Context, db QueryExecutor, database string, tables []string, opts ...Option) (*Accessor, error) {
	if db == nil {
		return nil, &ConfigurationError{Field: "db", Reason: "nil executor"}
	}
	start := time.Now()
	a := &Accessor{db: db}
	applyOptions(a, opts)
	a.logger = withDatabase(a.logger, database)

	loader := schema.Loader{
		Store: a.store,
		OnStoreError: func(op string, err error) {
			a.logger.Log("catalog snapshot "+op, nil, 0, err)
		},
	}
	catalog, err := loader.Load(ctx, db, database, tables...)
	if err != nil {
		return nil, err
	}
	a.catalog = catalog

	if a.debug {
		a.logger.Log(fmt.Sprintf("catalog load: %d tables", len(catalog.Tables())), nil, time.Since(start), nil)
	}
	return a, nil
}

// Bind, adı verilen tablo için bir Table tutamacı döndürür.
func (a *Accessor) Bind(table string) (*Table, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	if table == "" {
		return nil, &ValidationError{Field: "table", Err: ErrUnboundTable}
	}
	ts, err := a.catalog.Table(table)
	if err != nil {
		return nil, err
	}
	return &Table{acc: a, schema: ts}, nil
}

// MustBind, Bind gibidir ancak hata durumunda panic yapar. Başlangıç kodunda
// bilinen tablolar için kullanılır.
func (a *Accessor) MustBind(table string) *Table {
	t, err := a.Bind(table)
	if err != nil {
		panic(err)
	}
	return t
}

// Catalog, yüklü şema kataloğunu döndürür.
func (a *Accessor) Catalog() *schema.Catalog {
	return a.catalog
}

// Grammar, aktif grameri döndürür.
func (a *Accessor) Grammar() dialect.Grammar {
	return a.grammar
}

// Logger, sorgu izleme sistemine erişim sağlar.
func (a *Accessor) Logger() Logger {
	return a.logger
}

// Close, Open ile açılmış bağlantıyı kapatır. Birden fazla çağrı güvenlidir.
func (a *Accessor) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *Accessor) executor() *executor {
	return &executor{db: a.db, scanner: a.scanner, logger: a.logger, debug: a.debug}
}

// PageResult is one page of rows together with the clamped page descriptor.
type PageResult struct {
	Page filter.Page `json:"page"`
	Rows []*Row      `json:"rows"`
}

// Table, tek bir tabloya bağlı, değişmez bir erişim tutamacıdır. Her çağrı yeni
// bir Builder üzerinde çalıştığı için eşzamanlı kullanım güvenlidir.
type Table struct {
	acc    *Accessor
	schema *schema.TableSchema
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.schema.Name
}

// Schema returns the reflected table schema.
func (t *Table) Schema() *schema.TableSchema {
	return t.schema
}

// Columns returns the ordered column names.
func (t *Table) Columns() []string {
	return t.schema.ColumnNames()
}

// PrimaryKey returns the primary-key column name.
func (t *Table) PrimaryKey() (string, error) {
	pk, err := t.schema.PrimaryKey()
	if err != nil {
		return "", err
	}
	return pk.Name, nil
}

// Builder returns a new statement builder for the table.
func (t *Table) Builder() *Builder {
	return NewBuilder(t.acc.grammar, t.schema)
}

// ----------------------------------------------------------------------------
// Rendering (no execution)
// ----------------------------------------------------------------------------

// RenderSelectAll returns the SELECT statement for f.
func (t *Table) RenderSelectAll(f filter.Filters) (dialect.Statement, error) {
	return t.Builder().Filters(f).ToSelectSQL()
}

// RenderSelectOne returns the SELECT statement SelectOne runs: f with a
// LIMIT 0,1 window unless f carries its own page.
func (t *Table) RenderSelectOne(f filter.Filters) (dialect.Statement, error) {
	b := t.Builder().Filters(f)
	if !b.HasWindow() {
		b.Window(filter.PageWindow{Offset: 0, Limit: 1})
	}
	return b.ToSelectSQL()
}

// RenderSelectByPrimaryKey returns the SELECT statement for one primary-key value.
func (t *Table) RenderSelectByPrimaryKey(key any) (dialect.Statement, error) {
	f, err := t.keyFilter(key)
	if err != nil {
		return dialect.Statement{}, err
	}
	return t.RenderSelectOne(f)
}

// RenderCount returns the COUNT statement for f.
func (t *Table) RenderCount(f filter.Filters) (dialect.Statement, error) {
	return t.Builder().Filters(f).ToCountSQL()
}

// RenderSelectPage returns the SELECT statement for page as given, without
// clamping it against the row count.
func (t *Table) RenderSelectPage(page filter.Page, f filter.Filters) (dialect.Statement, error) {
	return t.Builder().Filters(withoutPage(f)).Window(page.Window()).ToSelectSQL()
}

// RenderSave returns the INSERT statement for rec.
func (t *Table) RenderSave(rec Record) (dialect.Statement, error) {
	return t.Builder().ToInsertSQL(rec)
}

// RenderUpdate returns the full UPDATE statement for rec.
func (t *Table) RenderUpdate(rec Record) (dialect.Statement, error) {
	return t.Builder().ToUpdateSQL(rec, false)
}

// RenderUpdateSelective returns the UPDATE statement for the non-nil values of rec.
func (t *Table) RenderUpdateSelective(rec Record) (dialect.Statement, error) {
	return t.Builder().ToUpdateSQL(rec, true)
}

// RenderRemove returns the DELETE statement for the primary-key value of rec.
func (t *Table) RenderRemove(rec Record) (dialect.Statement, error) {
	key, err := t.recordKey(rec)
	if err != nil {
		return dialect.Statement{}, err
	}
	return t.Builder().ToDeleteSQL(key)
}

// RenderRemoveByPrimaryKey returns the DELETE statement for key.
func (t *Table) RenderRemoveByPrimaryKey(key any) (dialect.Statement, error) {
	return t.Builder().ToDeleteSQL(key)
}

// ----------------------------------------------------------------------------
// Queries
// ----------------------------------------------------------------------------

// SelectOne returns the first matching row, or nil when nothing matches.
func (t *Table) SelectOne(ctx context.Context, f filter.Filters) (*Row, error) {
	stmt, err := t.RenderSelectOne(f)
	if err != nil {
		return nil, err
	}
	return t.one(ctx, stmt)
}

// SelectByPrimaryKey returns the row whose primary key equals key, or nil.
func (t *Table) SelectByPrimaryKey(ctx context.Context, key any) (*Row, error) {
	stmt, err := t.RenderSelectByPrimaryKey(key)
	if err != nil {
		return nil, err
	}
	return t.one(ctx, stmt)
}

// SelectAll returns every matching row in database order. An empty result is
// an empty, non-nil slice.
func (t *Table) SelectAll(ctx context.Context, f filter.Filters) ([]*Row, error) {
	stmt, err := t.RenderSelectAll(f)
	if err != nil {
		return nil, err
	}
	return t.all(ctx, stmt)
}

// Count returns the number of matching rows, or of groups when f groups.
// Ordering and page directives are ignored.
func (t *Table) Count(ctx context.Context, f filter.Filters) (int64, error) {
	stmt, err := t.RenderCount(f)
	if err != nil {
		return 0, err
	}
	values, err := t.acc.executor().query(ctx, stmt)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 || len(values[0]) == 0 {
		return 0, nil
	}
	n, ok := toInt64(values[0][0])
	if !ok {
		return 0, NewExecutionError("count", stmt.SQL, stmt.Args, fmt.Errorf("unexpected count value %T", values[0][0]))
	}
	return n, nil
}

// SelectPage counts the rows matching f, clamps page against the count and
// returns that page of rows.
func (t *Table) SelectPage(ctx context.Context, page filter.Page, f filter.Filters) (*PageResult, error) {
	f = withoutPage(f)
	total, err := t.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page.Clamp(total)

	stmt, err := t.RenderSelectPage(page, f)
	if err != nil {
		return nil, err
	}
	rows, err := t.all(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return &PageResult{Page: page, Rows: rows}, nil
}

// ----------------------------------------------------------------------------
// Mutations
// ----------------------------------------------------------------------------

// Save inserts rec and returns the number of affected rows.
func (t *Table) Save(ctx context.Context, rec Record) (int64, error) {
	stmt, err := t.RenderSave(rec)
	if err != nil {
		return 0, err
	}
	return t.acc.executor().update(ctx, stmt)
}

// Update writes every non-key column present in rec.
func (t *Table) Update(ctx context.Context, rec Record) (int64, error) {
	stmt, err := t.RenderUpdate(rec)
	if err != nil {
		return 0, err
	}
	return t.acc.executor().update(ctx, stmt)
}

// UpdateSelective writes the non-key columns of rec whose value is not nil.
func (t *Table) UpdateSelective(ctx context.Context, rec Record) (int64, error) {
	stmt, err := t.RenderUpdateSelective(rec)
	if err != nil {
		return 0, err
	}
	return t.acc.executor().update(ctx, stmt)
}

// Remove deletes the row identified by the primary-key value of rec.
func (t *Table) Remove(ctx context.Context, rec Record) (int64, error) {
	stmt, err := t.RenderRemove(rec)
	if err != nil {
		return 0, err
	}
	return t.acc.executor().update(ctx, stmt)
}

// RemoveByPrimaryKey deletes the row whose primary key equals key.
func (t *Table) RemoveByPrimaryKey(ctx context.Context, key any) (int64, error) {
	stmt, err := t.RenderRemoveByPrimaryKey(key)
	if err != nil {
		return 0, err
	}
	return t.acc.executor().update(ctx, stmt)
}

// ----------------------------------------------------------------------------
// helpers
// ----------------------------------------------------------------------------

func (t *Table) one(ctx context.Context, stmt dialect.Statement) (*Row, error) {
	values, err := t.acc.executor().query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return MapRow(t.schema.ColumnNames(), values[0]), nil
}

func (t *Table) all(ctx context.Context, stmt dialect.Statement) ([]*Row, error) {
	values, err := t.acc.executor().query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return MapRows(t.schema.ColumnNames(), values), nil
}

func (t *Table) keyFilter(key any) (filter.Filters, error) {
	pk, err := t.PrimaryKey()
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, &ValidationError{Field: pk, Err: ErrMissingPrimaryKey}
	}
	return filter.Filters{pk: key}, nil
}

func (t *Table) recordKey(rec Record) (any, error) {
	pk, err := t.PrimaryKey()
	if err != nil {
		return nil, err
	}
	key, ok := rec[pk]
	if !ok || key == nil {
		return nil, &ValidationError{Field: pk, Err: ErrMissingPrimaryKey}
	}
	return key, nil
}

func withoutPage(f filter.Filters) filter.Filters {
	if _, ok := f[filter.KeyPage]; !ok {
		return f
	}
	out := f.Clone()
	delete(out, filter.KeyPage)
	return out
}
