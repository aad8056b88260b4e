package fluentdao

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Row is one result row keyed by column name. Every column of the table is
// present, in schema order. A nil *Row stands for "no row".
type Row struct {
	columns []string
	values  map[string]any
}

// MapRow pairs values with columns by position. A nil values slice yields nil.
// Missing trailing values are nil; extra values are dropped. No coercion happens.
func MapRow(columns []string, values []any) *Row {
	if values == nil {
		return nil
	}
	r := &Row{
		columns: append([]string(nil), columns...),
		values:  make(map[string]any, len(columns)),
	}
	for i, col := range columns {
		var v any
		if i < len(values) {
			v = values[i]
		}
		r.values[col] = v
	}
	return r
}

// MapRows maps every raw row in order. A nil input yields nil.
func MapRows(columns []string, rows [][]any) []*Row {
	if rows == nil {
		return nil
	}
	out := make([]*Row, len(rows))
	for i, values := range rows {
		out[i] = MapRow(columns, values)
	}
	return out
}

// Columns returns the column names in order.
func (r *Row) Columns() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.columns...)
}

// Get returns the value of a column and whether the column exists.
func (r *Row) Get(column string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[column]
	return v, ok
}

// Values returns the values in column order.
func (r *Row) Values() []any {
	if r == nil {
		return nil
	}
	out := make([]any, len(r.columns))
	for i, col := range r.columns {
		out[i] = r.values[col]
	}
	return out
}

// Len returns the number of columns.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.columns)
}

// Record copies the row into a Record, ready to be passed back to Update or Remove.
func (r *Row) Record() Record {
	if r == nil {
		return nil
	}
	rec := make(Record, len(r.values))
	for k, v := range r.values {
		rec[k] = v
	}
	return rec
}

// MarshalJSON writes the row as a JSON object keeping column order.
func (r *Row) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode copies the row into the struct pointed to by dest. Fields are matched
// by their `db` tag, falling back to a case-insensitive field name match.
// Numeric strings are converted to number fields and "2006-01-02 15:04:05"
// strings to time.Time.
//
//	type User struct {
//	    ID   int64  `db:"id"`
//	    Name string `db:"name"`
//	}
//	var u User
//	err := row.Decode(&u)
func (r *Row) Decode(dest any) error {
	if r == nil {
		return &ValidationError{Field: "row", Reason: "cannot decode a nil row"}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "db",
		Result:           dest,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.DateTime),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return &ValidationError{Field: "dest", Err: err}
	}
	if err := dec.Decode(r.values); err != nil {
		return WrapError("decode row", err)
	}
	return nil
}

// DecodeRows decodes every row into the slice pointed to by dest.
func DecodeRows(rows []*Row, dest any) error {
	maps := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			maps = append(maps, r.values)
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "db",
		Result:           dest,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.DateTime),
	})
	if err != nil {
		return &ValidationError{Field: "dest", Err: err}
	}
	if err := dec.Decode(maps); err != nil {
		return WrapError("decode rows", err)
	}
	return nil
}
