package fluentdao

import (
	"fmt"

	"github.com/biyonik/go-fluent-dao/dialect"
	"github.com/biyonik/go-fluent-dao/filter"
	"github.com/biyonik/go-fluent-dao/schema"
)

// Record is a caller-supplied row: column name to value.
type Record map[string]any

// Builder, tek bir tablonun şeması ve derlenmiş filtre direktifleri üzerinden
// SELECT, COUNT, INSERT, UPDATE ve DELETE ifadelerini oluşturur.
//
// Filtrelerde geçen her kolon şemaya karşı doğrulanır; bilinmeyen bir kolon
// SchemaError üretir. Hatalar zincir boyunca biriktirilir ve ilk To*SQL
// çağrısında döndürülür.
//
// Builder örnekleri concurrent-safe değildir; paralel kullanımlar için Clone()
// ile çoğaltılmalıdır.
//
//	stmt, err := NewBuilder(dialect.MySQL(), tbl).
//	    Filters(filter.Filters{"_llike_province": "省", "page": filter.NewPage(1, 20)}).
//	    ToSelectSQL()
//
// @author Ahmet ALTUN
// @github github.com/biyonik
type Builder struct {
	grammar  dialect.Grammar
	table    *schema.TableSchema
	compiled *filter.Compiled

	// Accumulated error
	err error
}

// NewBuilder, belirtilen grammar ve tablo şeması ile yeni bir Builder oluşturur.
func NewBuilder(grammar dialect.Grammar, table *schema.TableSchema) *Builder {
	if grammar == nil {
		grammar = dialect.MySQL()
	}
	b := &Builder{grammar: grammar, table: table, compiled: &filter.Compiled{}}
	if table == nil {
		b.err = &ValidationError{Field: "table", Err: ErrUnboundTable}
	}
	return b
}

// Filters, filtre eşlemesini derler ve mevcut direktiflerin yerine koyar.
func (b *Builder) Filters(f filter.Filters) *Builder {
	if b.err != nil {
		return b
	}
	c, err := filter.Compile(f)
	if err != nil {
		b.err = asValidation("filters", err)
		return b
	}
	return b.Compiled(c)
}

// Compiled, önceden derlenmiş direktifleri kullanır.
func (b *Builder) Compiled(c *filter.Compiled) *Builder {
	if b.err != nil {
		return b
	}
	if c == nil {
		c = &filter.Compiled{}
	}
	for _, col := range c.Columns() {
		if _, err := b.table.RequireColumn(col); err != nil {
			b.err = err
			return b
		}
	}
	b.compiled = c
	return b
}

// Window, sayfa penceresini değiştirir.
func (b *Builder) Window(w filter.PageWindow) *Builder {
	if b.err != nil {
		return b
	}
	if w.Offset < 0 || w.Limit < 1 {
		b.err = &ValidationError{Field: filter.KeyPage, Reason: fmt.Sprintf("invalid window offset=%d limit=%d", w.Offset, w.Limit)}
		return b
	}
	b.compiled = b.compiled.WithWindow(w)
	return b
}

// HasWindow, bir LIMIT penceresinin tanımlı olup olmadığını bildirir.
func (b *Builder) HasWindow() bool {
	return b.compiled != nil && b.compiled.Window != nil
}

// Err, biriken hatayı döndürür.
func (b *Builder) Err() error {
	return b.err
}

// Clone, Builder'ın bağımsız bir kopyasını döndürür.
func (b *Builder) Clone() *Builder {
	c := *b
	c.compiled = b.compiled.Clone()
	return &c
}

// ----------------------------------------------------------------------------
// dialect.QueryBuilder
// ----------------------------------------------------------------------------

func (b *Builder) GetTable() string {
	if b.table == nil {
		return ""
	}
	return b.table.Name
}

// GetColumns returns the full ordered column list of the table.
func (b *Builder) GetColumns() []string {
	if b.table == nil {
		return nil
	}
	return b.table.ColumnNames()
}

func (b *Builder) GetPredicates() []filter.Predicate { return b.compiled.Predicates }
func (b *Builder) GetGroupBy() *filter.GroupBy       { return b.compiled.Group }
func (b *Builder) GetOrderBy() *filter.OrderBy       { return b.compiled.Order }
func (b *Builder) GetWindow() *filter.PageWindow     { return b.compiled.Window }

// ----------------------------------------------------------------------------
// Compilation
// ----------------------------------------------------------------------------

// ToSelectSQL, SELECT ifadesini derler.
func (b *Builder) ToSelectSQL() (dialect.Statement, error) {
	if b.err != nil {
		return dialect.Statement{}, b.err
	}
	stmt, err := b.grammar.CompileSelect(b)
	return stmt, asValidation("select", err)
}

// ToCountSQL, aynı koşullarla COUNT ifadesini derler. Sıralama ve pencere
// atılır; Builder'ın kendi direktifleri değişmez.
func (b *Builder) ToCountSQL() (dialect.Statement, error) {
	if b.err != nil {
		return dialect.Statement{}, b.err
	}
	counting := *b
	counting.compiled = b.compiled.ForCount()
	stmt, err := b.grammar.CompileCount(&counting)
	return stmt, asValidation("count", err)
}

// ToInsertSQL, kayıttaki kolonları şema sırasıyla yazan INSERT ifadesini derler.
// Birincil anahtar kayıtta yoksa NULL olarak eklenir ki motor kendisi üretebilsin.
func (b *Builder) ToInsertSQL(rec Record) (dialect.Statement, error) {
	if b.err != nil {
		return dialect.Statement{}, b.err
	}
	if err := b.checkColumns(rec); err != nil {
		return dialect.Statement{}, err
	}
	pk, err := b.table.PrimaryKey()
	if err != nil {
		return dialect.Statement{}, err
	}

	var values []dialect.Assignment
	for _, col := range b.table.Columns {
		v, ok := rec[col.Name]
		switch {
		case col.Name == pk.Name:
			values = append(values, dialect.Assignment{Column: col.Name, Value: v, Typed: true})
		case ok:
			values = append(values, dialect.Assignment{Column: col.Name, Value: v})
		}
	}

	stmt, err := b.grammar.CompileInsert(b.table.Name, values)
	return stmt, asValidation("insert", err)
}

// ToUpdateSQL, birincil anahtara göre UPDATE ifadesini derler.
//
// Selective false ise kayıttaki nil değerler nullable kolonlarda NULL,
// nullable olmayan kolonlarda boş string olarak yazılır. Selective true
// ise nil değerli kolonlar hiç yazılmaz.
func (b *Builder) ToUpdateSQL(rec Record, selective bool) (dialect.Statement, error) {
	if b.err != nil {
		return dialect.Statement{}, b.err
	}
	if err := b.checkColumns(rec); err != nil {
		return dialect.Statement{}, err
	}
	pk, err := b.table.PrimaryKey()
	if err != nil {
		return dialect.Statement{}, err
	}
	key, ok := rec[pk.Name]
	if !ok || key == nil {
		return dialect.Statement{}, &ValidationError{Field: pk.Name, Err: ErrMissingPrimaryKey}
	}

	var set []dialect.Assignment
	for _, col := range b.table.Columns {
		v, ok := rec[col.Name]
		if !ok || col.Name == pk.Name {
			continue
		}
		if v == nil {
			if selective {
				continue
			}
			if !col.Nullable {
				v = ""
			}
		}
		set = append(set, dialect.Assignment{Column: col.Name, Value: v})
	}
	if len(set) == 0 {
		return dialect.Statement{}, &ValidationError{Field: b.table.Name, Err: ErrNoColumns}
	}

	stmt, err := b.grammar.CompileUpdate(b.table.Name, set, dialect.Assignment{Column: pk.Name, Value: key})
	return stmt, asValidation("update", err)
}

// ToDeleteSQL, birincil anahtar değerine göre DELETE ifadesini derler.
func (b *Builder) ToDeleteSQL(key any) (dialect.Statement, error) {
	if b.err != nil {
		return dialect.Statement{}, b.err
	}
	pk, err := b.table.PrimaryKey()
	if err != nil {
		return dialect.Statement{}, err
	}
	if key == nil {
		return dialect.Statement{}, &ValidationError{Field: pk.Name, Err: ErrMissingPrimaryKey}
	}
	stmt, err := b.grammar.CompileDelete(b.table.Name, dialect.Assignment{Column: pk.Name, Value: key, Typed: true})
	return stmt, asValidation("delete", err)
}

func (b *Builder) checkColumns(rec Record) error {
	for col := range rec {
		if _, err := b.table.RequireColumn(col); err != nil {
			return err
		}
	}
	return nil
}
