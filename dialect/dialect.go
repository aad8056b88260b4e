// Package dialect, tablo erişim katmanının ürettiği SELECT, COUNT, INSERT, UPDATE ve
// DELETE ifadelerini veritabanına özgü SQL metnine çeviren gramerleri içerir.
//
// Gramer iki biçimde çıktı üretebilir: değerleri doğrudan SQL metnine gömen Literal
// mod (varsayılan) ve "?" yer tutucuları ile argüman listesi döndüren Bound mod.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package dialect

import (
	"fmt"
	"strings"

	"github.com/biyonik/go-fluent-dao/filter"
)

// ----------------------------------------------------------------------------
// QueryBuilder Interface (import döngüsünü kırmak için)
// ----------------------------------------------------------------------------

// QueryBuilder, Grammar implementasyonlarının SELECT ve COUNT derlerken ihtiyaç
// duyduğu okuma arayüzüdür. Ana paketteki Builder bu arayüzü karşılar.
type QueryBuilder interface {
	GetTable() string
	GetColumns() []string
	GetPredicates() []filter.Predicate
	GetGroupBy() *filter.GroupBy
	GetOrderBy() *filter.OrderBy
	GetWindow() *filter.PageWindow
}

// ----------------------------------------------------------------------------
// Grammar Interface
// ----------------------------------------------------------------------------

// Grammar, sorgu bileşenlerini veritabanına özgü SQL ifadelerine çevirir.
type Grammar interface {
	// Name, gramerin kimliğini döndürür (örn. "mysql").
	Name() string

	// Mode, değerlerin metne gömülüp gömülmeyeceğini belirler.
	Mode() RenderMode

	// Wrap, bir sütun adını veritabanına özgü tırnaklarla sarar.
	Wrap(identifier string) (string, error)

	// WrapTable, tablo adını sarar.
	WrapTable(table string) (string, error)

	// Placeholder, Bound modda kullanılan parametre yer tutucusudur.
	Placeholder(index int) string

	CompileSelect(b QueryBuilder) (Statement, error)
	CompileCount(b QueryBuilder) (Statement, error)
	CompileInsert(table string, values []Assignment) (Statement, error)
	CompileUpdate(table string, set []Assignment, key Assignment) (Statement, error)
	CompileDelete(table string, key Assignment) (Statement, error)
}

// ----------------------------------------------------------------------------
// Base Grammar (ortak fonksiyonlar)
// ----------------------------------------------------------------------------

// BaseGrammar, tüm gramer implementasyonları için ortak alanları taşır.
type BaseGrammar struct {
	name       string
	dateFormat string
	mode       RenderMode
}

// Name, gramerin adını döndürür.
func (g *BaseGrammar) Name() string {
	return g.name
}

// Mode, gramerin çıktı modunu döndürür.
func (g *BaseGrammar) Mode() RenderMode {
	return g.mode
}

// DateFormat, time.Time değerlerinin literal olarak yazılırken kullanacağı formattır.
// Format belirtilmemişse varsayılan "2006-01-02 15:04:05" kullanılır.
func (g *BaseGrammar) DateFormat() string {
	if g.dateFormat == "" {
		return "2006-01-02 15:04:05"
	}
	return g.dateFormat
}

// ----------------------------------------------------------------------------
// Render Modes
// ----------------------------------------------------------------------------

// RenderMode, değerlerin SQL metnine nasıl yerleştirileceğini belirtir.
type RenderMode int

const (
	// Literal, değerleri tırnaklanmış ve kaçış karakterleri işlenmiş olarak metne gömer.
	Literal RenderMode = iota
	// Bound, değerler yerine "?" yazar ve değerleri Statement.Args içinde döndürür.
	Bound
)

// String, modun adını döndürür.
func (m RenderMode) String() string {
	if m == Bound {
		return "bound"
	}
	return "literal"
}

// ParseRenderMode, yapılandırmadan gelen mod adını çözer. Boş değer Literal'dir.
func ParseRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal":
		return Literal, nil
	case "bound":
		return Bound, nil
	default:
		return Literal, &DialectError{Message: fmt.Sprintf("unknown render mode %q", s)}
	}
}

// ----------------------------------------------------------------------------
// Statement & Assignment
// ----------------------------------------------------------------------------

// Statement, derlenmiş SQL metni ve (Bound modda) argümanlarıdır.
// Literal modda Args boştur.
type Statement struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args,omitempty"`
}

// String, SQL metnini döndürür.
func (s Statement) String() string {
	return s.SQL
}

// Assignment, INSERT/UPDATE/DELETE için bir sütun-değer çiftidir.
//
// Typed true ise değer tipine göre yazılır (sayılar tırnaksız); aksi hâlde her
// değer string literal olarak tırnaklanır. Nil değer her zaman NULL'dur.
type Assignment struct {
	Column string
	Value  any
	Typed  bool
}

// ----------------------------------------------------------------------------
// Sentinel Errors (dialect-specific)
// ----------------------------------------------------------------------------

// Ana paket ile import döngüsünü önlemek için burada tanımlanmıştır.
var (
	ErrNoTable     = &DialectError{Message: "no table specified"}
	ErrNoColumns   = &DialectError{Message: "no columns specified"}
	ErrNoKey       = &DialectError{Message: "no primary key value"}
	ErrEmptyList   = &DialectError{Message: "empty value list"}
	ErrBadOperator = &DialectError{Message: "unsupported operator"}
)

// DialectError, dialect'e özgü hataları temsil eder.
type DialectError struct {
	Message string
}

// Error, hatayı string olarak döndürür.
func (e *DialectError) Error() string {
	return "dialect: " + e.Message
}
