package dialect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/biyonik/go-fluent-dao/filter"
	"github.com/biyonik/go-fluent-dao/internal/validation"
)

/*
 * ----------------------------------------------------------------------------
 * MYSQL GRAMMAR IMPLEMENTATION
 * ----------------------------------------------------------------------------
 *
 * Bu dosya, şemadan ve derlenmiş filtre direktiflerinden gelen parçaları
 * çalıştırılabilir MySQL/MariaDB SQL dizelerine dönüştüren katmandır.
 *
 * Sorumluluklar:
 * 1. Tablo ve kolon isimlerini backtick (`) ile sarmalamak.
 * 2. WHERE 1=1 tabanı üzerine AND ile bağlanan koşulları, ardından
 * GROUP BY, ORDER BY ve LIMIT offset,limit bloklarını sırasıyla eklemek.
 * 3. Değerleri Literal modda kaçış karakterleriyle metne gömmek, Bound modda
 * "?" yer tutucusu ve argüman listesi olarak döndürmek.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

var numericText = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// MySQLGrammar, Grammar arayüzünü MySQL ve MariaDB veritabanları için implemente eder.
type MySQLGrammar struct {
	BaseGrammar
}

// MySQL, Literal modda çalışan yeni bir MySQL dilbilgisi örneği oluşturur.
func MySQL() *MySQLGrammar {
	return NewMySQLGrammar(Literal)
}

// NewMySQLGrammar, verilen çıktı moduyla bir MySQL grameri oluşturur.
func NewMySQLGrammar(mode RenderMode) *MySQLGrammar {
	return &MySQLGrammar{
		BaseGrammar: BaseGrammar{
			name:       "mysql",
			dateFormat: "2006-01-02 15:04:05",
			mode:       mode,
		},
	}
}

// Wrap, bir kolon adını backtick ile sarmalar. İsimdeki backtick'ler ikilenir;
// böylece şemadan gelen "first-name" gibi isimler de güvenle yazılır.
//
//	province -> `province`
//	a`b      -> `a``b`
func (g *MySQLGrammar) Wrap(identifier string) (string, error) {
	if err := validation.ValidateName(identifier); err != nil {
		return "", err
	}
	return validation.QuoteIdentifier(identifier), nil
}

// WrapTable, tablo ismini güvenli bir şekilde sarmalar. Takma ad desteklenmez.
func (g *MySQLGrammar) WrapTable(table string) (string, error) {
	if table == "" {
		return "", ErrNoTable
	}
	if err := validation.ValidateName(table); err != nil {
		return "", err
	}
	return validation.QuoteIdentifier(table), nil
}

// Placeholder, MySQL için her zaman "?" döndürür.
func (g *MySQLGrammar) Placeholder(index int) string {
	return "?"
}

// CompileSelect, tam kolon listesiyle bir SELECT sorgusu inşa eder.
//
//	SELECT `c1`, `c2` FROM `t` WHERE 1=1 AND ... GROUP BY `g` ORDER BY `o` DESC LIMIT 0,20
func (g *MySQLGrammar) CompileSelect(b QueryBuilder) (Statement, error) {
	columns := b.GetColumns()
	if len(columns) == 0 {
		return Statement{}, ErrNoColumns
	}

	table, err := g.WrapTable(b.GetTable())
	if err != nil {
		return Statement{}, err
	}

	wrapped := make([]string, len(columns))
	for i, col := range columns {
		if wrapped[i], err = g.Wrap(col); err != nil {
			return Statement{}, err
		}
	}

	var sql strings.Builder
	sql.WriteString("SELECT ")
	sql.WriteString(strings.Join(wrapped, ", "))
	sql.WriteString(" FROM ")
	sql.WriteString(table)

	args, err := g.compileTail(&sql, b, true)
	if err != nil {
		return Statement{}, err
	}
	return g.statement(sql.String(), args), nil
}

// CompileCount, aynı koşullarla satır sayısını döndüren bir COUNT sorgusu oluşturur.
//
// ORDER BY ve LIMIT hiçbir zaman eklenmez. GROUP BY varsa sayım grupların
// sayısıdır, bu yüzden gruplu sorgu bir alt sorguya sarılır:
//
//	SELECT count(*) FROM (SELECT 1 FROM `t` WHERE 1=1 GROUP BY `g`) AS `grouped`
func (g *MySQLGrammar) CompileCount(b QueryBuilder) (Statement, error) {
	table, err := g.WrapTable(b.GetTable())
	if err != nil {
		return Statement{}, err
	}

	var inner strings.Builder
	grouped := b.GetGroupBy() != nil
	if grouped {
		inner.WriteString("SELECT 1 FROM ")
	} else {
		inner.WriteString("SELECT count(*) FROM ")
	}
	inner.WriteString(table)

	args, err := g.compileTail(&inner, b, false)
	if err != nil {
		return Statement{}, err
	}

	if !grouped {
		return g.statement(inner.String(), args), nil
	}
	return g.statement("SELECT count(*) FROM ("+inner.String()+") AS `grouped`", args), nil
}

// CompileInsert, tekil bir kayıt ekleme sorgusu oluşturur. Kolonlar verildiği
// sırada yazılır; sıralama çağıran tarafın (şema sırası) sorumluluğundadır.
//
//	INSERT INTO `t` (`a`, `b`) VALUES (NULL, 'x')
func (g *MySQLGrammar) CompileInsert(table string, values []Assignment) (Statement, error) {
	if len(values) == 0 {
		return Statement{}, ErrNoColumns
	}
	wrappedTable, err := g.WrapTable(table)
	if err != nil {
		return Statement{}, err
	}

	cols := make([]string, len(values))
	vals := make([]string, len(values))
	var args []any
	for i, v := range values {
		if cols[i], err = g.Wrap(v.Column); err != nil {
			return Statement{}, err
		}
		vals[i], args = g.value(v, args)
	}

	sql := "INSERT INTO " + wrappedTable +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(vals, ", ") + ")"
	return g.statement(sql, args), nil
}

// CompileUpdate, birincil anahtara göre tek satırı güncelleyen sorguyu oluşturur.
//
//	UPDATE `user` SET `name`=NULL WHERE `id`='2'
func (g *MySQLGrammar) CompileUpdate(table string, set []Assignment, key Assignment) (Statement, error) {
	if len(set) == 0 {
		return Statement{}, ErrNoColumns
	}
	if key.Value == nil {
		return Statement{}, ErrNoKey
	}
	wrappedTable, err := g.WrapTable(table)
	if err != nil {
		return Statement{}, err
	}

	var args []any
	pairs := make([]string, len(set))
	for i, a := range set {
		col, err := g.Wrap(a.Column)
		if err != nil {
			return Statement{}, err
		}
		var val string
		val, args = g.value(a, args)
		pairs[i] = col + "=" + val
	}

	where, args, err := g.keyClause(key, args)
	if err != nil {
		return Statement{}, err
	}

	sql := "UPDATE " + wrappedTable + " SET " + strings.Join(pairs, ", ") + " WHERE " + where
	return g.statement(sql, args), nil
}

// CompileDelete, birincil anahtara göre tek satırı silen sorguyu oluşturur.
//
//	DELETE FROM `user` WHERE `id`=5
func (g *MySQLGrammar) CompileDelete(table string, key Assignment) (Statement, error) {
	if key.Value == nil {
		return Statement{}, ErrNoKey
	}
	wrappedTable, err := g.WrapTable(table)
	if err != nil {
		return Statement{}, err
	}
	where, args, err := g.keyClause(key, nil)
	if err != nil {
		return Statement{}, err
	}
	return g.statement("DELETE FROM "+wrappedTable+" WHERE "+where, args), nil
}

// ----------------------------------------------------------------------------
// Internal helpers
// ----------------------------------------------------------------------------

// compileTail, WHERE 1=1 tabanını, koşulları, GROUP BY ve (withOrder ise)
// ORDER BY ile LIMIT bloklarını sırasıyla ekler.
func (g *MySQLGrammar) compileTail(sql *strings.Builder, b QueryBuilder, withOrder bool) ([]any, error) {
	var args []any

	sql.WriteString(" WHERE 1=1")
	for _, p := range b.GetPredicates() {
		clause, next, err := g.compilePredicate(p, args)
		if err != nil {
			return nil, err
		}
		args = next
		sql.WriteString(" AND ")
		sql.WriteString(clause)
	}

	if group := b.GetGroupBy(); group != nil {
		col, err := g.Wrap(group.Column)
		if err != nil {
			return nil, err
		}
		sql.WriteString(" GROUP BY ")
		sql.WriteString(col)
	}

	if !withOrder {
		return args, nil
	}

	if order := b.GetOrderBy(); order != nil {
		col, err := g.Wrap(order.Column)
		if err != nil {
			return nil, err
		}
		dir, err := validation.NormalizeDirection(order.Direction)
		if err != nil {
			return nil, err
		}
		sql.WriteString(" ORDER BY ")
		sql.WriteString(col)
		sql.WriteString(" ")
		sql.WriteString(dir)
	}

	if w := b.GetWindow(); w != nil {
		sql.WriteString(" LIMIT ")
		sql.WriteString(strconv.Itoa(w.Offset))
		sql.WriteString(",")
		sql.WriteString(strconv.Itoa(w.Limit))
	}
	return args, nil
}

// compilePredicate, tek bir filtre koşulunu SQL parçasına dönüştürür.
func (g *MySQLGrammar) compilePredicate(p filter.Predicate, args []any) (string, []any, error) {
	col, err := g.Wrap(p.Column)
	if err != nil {
		return "", args, err
	}

	switch {
	case p.Operator == filter.Eq:
		if p.Value == nil {
			return col + " IS NULL", args, nil
		}
		val, args := g.bind(p.Value, g.TypedLiteral(p.Value), args)
		return col + " = " + val, args, nil

	case p.Operator == filter.Ne && p.Value == nil:
		return col + " IS NOT NULL", args, nil

	case p.Operator.IsList():
		items, ok := p.Value.([]any)
		if !ok || len(items) == 0 {
			return "", args, ErrEmptyList
		}
		vals := make([]string, len(items))
		for i, item := range items {
			vals[i], args = g.bind(item, g.listLiteral(item), args)
		}
		return col + " " + p.Operator.Symbol() + " (" + strings.Join(vals, ",") + ")", args, nil

	case p.Operator.IsPattern():
		pattern := p.Operator.Pattern(g.text(p.Value))
		val, args := g.bind(pattern, Quote(pattern), args)
		return col + " LIKE " + val, args, nil

	case p.Operator.Symbol() != "":
		val, args := g.bind(p.Value, g.QuotedLiteral(p.Value), args)
		return col + " " + p.Operator.Symbol() + " " + val, args, nil
	}

	return "", args, ErrBadOperator
}

// listLiteral, IN listesindeki bir öğeyi yazar. Virgülle ayrılmış metinden gelen
// "12" gibi sayısal öğeler sayı olarak, diğerleri tırnaklı yazılır.
func (g *MySQLGrammar) listLiteral(item any) string {
	if s, ok := item.(string); ok && numericText.MatchString(s) {
		return s
	}
	return g.TypedLiteral(item)
}

// keyClause, birincil anahtar koşulunu "`pk`=value" biçiminde yazar.
func (g *MySQLGrammar) keyClause(key Assignment, args []any) (string, []any, error) {
	col, err := g.Wrap(key.Column)
	if err != nil {
		return "", args, err
	}
	val, args := g.value(key, args)
	return col + "=" + val, args, nil
}

// value, bir atamanın değerini moduna göre literal veya yer tutucu olarak yazar.
func (g *MySQLGrammar) value(a Assignment, args []any) (string, []any) {
	if a.Value == nil {
		return "NULL", args
	}
	if a.Typed {
		return g.bind(a.Value, g.TypedLiteral(a.Value), args)
	}
	return g.bind(a.Value, g.QuotedLiteral(a.Value), args)
}

// bind, Bound modda değeri argümanlara ekleyip "?" döndürür; Literal modda
// hazırlanmış literal metni olduğu gibi döndürür.
func (g *MySQLGrammar) bind(v any, literal string, args []any) (string, []any) {
	if g.mode == Bound {
		return g.Placeholder(len(args) + 1), append(args, v)
	}
	return literal, args
}

func (g *MySQLGrammar) statement(sql string, args []any) Statement {
	if g.mode == Literal {
		args = nil
	}
	return Statement{SQL: sql, Args: args}
}
