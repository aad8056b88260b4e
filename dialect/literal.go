package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Quote, s değerini MySQL string literal'i olarak yazar.
// Ters bölü ve tek tırnak kaçış karakteriyle işaretlenir.
//
//	Quote("O'Brien") // 'O\'Brien'
func Quote(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}

// IsNumeric, değerin tırnaksız yazılabilecek bir sayı olup olmadığını bildirir.
func IsNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// QuotedLiteral, değeri tipinden bağımsız olarak tırnaklı yazar; nil NULL olur.
func (g *BaseGrammar) QuotedLiteral(v any) string {
	if v == nil {
		return "NULL"
	}
	return Quote(g.text(v))
}

// TypedLiteral, sayıları tırnaksız, bool değerleri 1/0, diğer her şeyi tırnaklı yazar.
func (g *BaseGrammar) TypedLiteral(v any) string {
	switch n := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if n {
			return "1"
		}
		return "0"
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if IsNumeric(v) {
		return fmt.Sprint(v)
	}
	return Quote(g.text(v))
}

func (g *BaseGrammar) text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format(g.DateFormat())
	case *time.Time:
		if s == nil {
			return ""
		}
		return s.Format(g.DateFormat())
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
