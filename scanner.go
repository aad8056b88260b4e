package fluentdao

import (
	"database/sql"
	"strconv"
)

/*
 * ----------------------------------------------------------------------------
 * ROW SCANNER
 * ----------------------------------------------------------------------------
 *
 * Scanner, *sql.Rows içindeki ham satırları []any dilimlerine okur. Şema
 * bilinmeden tip tahmini yapılmaz; sürücünün verdiği değer olduğu gibi
 * taşınır. Tek istisna []byte'tır: MySQL sürücüsü metin kolonlarını []byte
 * olarak döndürür ve bu dilimler bir sonraki Next çağrısında yeniden
 * kullanılabilir, bu yüzden string'e kopyalanır.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * ----------------------------------------------------------------------------
 */

// Scanner, sorgu sonucunu kolon adları ve ham değer satırları olarak okur.
type Scanner interface {
	ScanRows(rows *sql.Rows) (columns []string, values [][]any, err error)
}

// DefaultScanner, varsayılan Scanner implementasyonudur.
type DefaultScanner struct{}

// NewDefaultScanner, yeni bir DefaultScanner oluşturur.
func NewDefaultScanner() *DefaultScanner {
	return &DefaultScanner{}
}

// ScanRows, tüm satırları okur ve rows'u kapatır. Boş sonuç boş (nil olmayan) bir
// dilim döndürür.
func (s *DefaultScanner) ScanRows(rows *sql.Rows) ([]string, [][]any, error) {
	if rows == nil {
		return nil, nil, WrapError("scan rows", sql.ErrNoRows)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, WrapError("get columns", err)
	}

	out := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dests := make([]any, len(columns))
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, nil, WrapError("scan row", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, WrapError("iterate rows", err)
	}
	return columns, out, nil
}

// toInt64 converts a scalar COUNT result. Drivers return int64; text protocols
// and test doubles may return other integer types or digit strings.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
