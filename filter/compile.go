package filter

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/biyonik/go-fluent-dao/internal/validation"
)

// Directive keys. They are matched exactly, never as prefixes.
const (
	KeyGroupBy   = "groupby"
	KeyOrderBy   = "orderby"
	KeyOrderType = "ordertype"
	KeyPage      = "page"
)

// Filters is the caller-facing filter mapping.
type Filters map[string]any

// Clone returns a shallow copy of f. A nil f yields an empty, non-nil map.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Compile turns a filter mapping into directives.
//
// Predicates are emitted in sorted key order so the rendered SQL is stable across
// calls. Only one grouping, ordering and page window exist per mapping.
func Compile(f Filters) (*Compiled, error) {
	out := &Compiled{}
	if len(f) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := f[key]
		switch key {
		case KeyGroupBy:
			col, err := columnValue(key, value)
			if err != nil {
				return nil, err
			}
			out.Group = &GroupBy{Column: col}
		case KeyOrderBy:
			col, err := columnValue(key, value)
			if err != nil {
				return nil, err
			}
			dir, err := orderDirection(f[KeyOrderType])
			if err != nil {
				return nil, err
			}
			out.Order = &OrderBy{Column: col, Direction: dir}
		case KeyOrderType:
			// consumed together with orderby
		case KeyPage:
			w, err := pageWindow(value)
			if err != nil {
				return nil, err
			}
			out.Window = &w
		default:
			p, err := compilePredicate(key, value)
			if err != nil {
				return nil, err
			}
			out.Predicates = append(out.Predicates, p)
		}
	}

	return out, nil
}

func compilePredicate(key string, value any) (Predicate, error) {
	op, column, err := ParseKey(key)
	if err != nil {
		return Predicate{}, err
	}
	if err := validation.ValidateIdentifier(column); err != nil {
		return Predicate{}, &Error{Key: key, Reason: err.Error()}
	}

	if op.IsList() {
		values, err := listValue(key, value)
		if err != nil {
			return Predicate{}, err
		}
		return Predicate{Column: column, Operator: op, Value: values}, nil
	}

	if value == nil && op != Eq && op != Ne {
		return Predicate{}, &Error{Key: key, Reason: "nil value is only allowed for equality"}
	}
	if value != nil && !isScalar(value) {
		return Predicate{}, &Error{Key: key, Reason: fmt.Sprintf("unsupported value type %T", value)}
	}

	return Predicate{Column: column, Operator: op, Value: value}, nil
}

func columnValue(key string, value any) (string, error) {
	col, ok := value.(string)
	if !ok {
		return "", &Error{Key: key, Reason: fmt.Sprintf("expected a column name, got %T", value)}
	}
	col = strings.TrimSpace(col)
	if err := validation.ValidateIdentifier(col); err != nil {
		return "", &Error{Key: key, Reason: err.Error()}
	}
	return col, nil
}

func orderDirection(value any) (string, error) {
	if value == nil {
		return validation.DirectionAsc, nil
	}
	s, ok := value.(string)
	if !ok {
		return "", &Error{Key: KeyOrderType, Reason: fmt.Sprintf("expected asc or desc, got %T", value)}
	}
	dir, err := validation.NormalizeDirection(s)
	if err != nil {
		return "", &Error{Key: KeyOrderType, Reason: err.Error()}
	}
	return dir, nil
}

func pageWindow(value any) (PageWindow, error) {
	var w PageWindow
	switch v := value.(type) {
	case Page:
		w = v.Window()
	case *Page:
		if v == nil {
			return w, &Error{Key: KeyPage, Reason: "nil page"}
		}
		w = v.Window()
	case PageWindow:
		w = v
	case *PageWindow:
		if v == nil {
			return w, &Error{Key: KeyPage, Reason: "nil page window"}
		}
		w = *v
	case map[string]any:
		offset, ok1 := toInt(v["offset"])
		limit, ok2 := toInt(v["limit"])
		if !ok1 || !ok2 {
			return w, &Error{Key: KeyPage, Reason: "page mapping needs numeric offset and limit"}
		}
		w = PageWindow{Offset: offset, Limit: limit}
	default:
		return w, &Error{Key: KeyPage, Reason: fmt.Sprintf("expected a Page, got %T", value)}
	}

	if w.Offset < 0 || w.Limit < 1 {
		return w, &Error{Key: KeyPage, Reason: fmt.Sprintf("invalid window offset=%d limit=%d", w.Offset, w.Limit)}
	}
	return w, nil
}

// listValue accepts a comma-joined string or a slice of scalars.
func listValue(key string, value any) ([]any, error) {
	var out []any
	switch v := value.(type) {
	case nil:
	case string:
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			if !isScalar(value) {
				return nil, &Error{Key: key, Reason: fmt.Sprintf("unsupported list type %T", value)}
			}
			out = append(out, value)
			break
		}
		for i := 0; i < rv.Len(); i++ {
			item := rv.Index(i).Interface()
			if item == nil || !isScalar(item) {
				return nil, &Error{Key: key, Reason: fmt.Sprintf("unsupported list item %v", item)}
			}
			out = append(out, item)
		}
	}

	if len(out) == 0 {
		return nil, &Error{Key: key, Reason: "empty value list"}
	}
	return out, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, []byte, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, fmt.Stringer:
		return true
	default:
		return false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}
