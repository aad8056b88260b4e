package filter

import "strings"

// Operator is the comparison a predicate applies to its column.
type Operator int

const (
	Eq Operator = iota
	Ne
	Lt
	Le
	Gt
	Ge
	In
	NotIn
	Like
	LikePrefix
	LikeSuffix
)

// prefixes lists the key prefixes in matching priority. Longer and more specific
// prefixes come first so that no prefix can shadow another one.
var prefixes = []struct {
	prefix string
	op     Operator
}{
	{"_in_", In},
	{"_nein_", NotIn},
	{"_like_", Like},
	{"_llike_", LikeSuffix},
	{"_rlike_", LikePrefix},
	{"_ne_", Ne},
	{"_lt_", Lt},
	{"_le_", Le},
	{"_gt_", Gt},
	{"_ge_", Ge},
}

var operatorNames = [...]string{
	Eq:         "Eq",
	Ne:         "Ne",
	Lt:         "Lt",
	Le:         "Le",
	Gt:         "Gt",
	Ge:         "Ge",
	In:         "In",
	NotIn:      "NotIn",
	Like:       "Like",
	LikePrefix: "LikePrefix",
	LikeSuffix: "LikeSuffix",
}

var operatorSymbols = [...]string{
	Eq:         "=",
	Ne:         "!=",
	Lt:         "<",
	Le:         "<=",
	Gt:         ">",
	Ge:         ">=",
	In:         "IN",
	NotIn:      "NOT IN",
	Like:       "LIKE",
	LikePrefix: "LIKE",
	LikeSuffix: "LIKE",
}

// Operators returns every operator in declaration order.
func Operators() []Operator {
	ops := make([]Operator, 0, len(operatorNames))
	for op := range operatorNames {
		ops = append(ops, Operator(op))
	}
	return ops
}

// String returns the operator name.
func (o Operator) String() string {
	if o.valid() {
		return operatorNames[o]
	}
	return "Unknown"
}

// Symbol returns the SQL operator text.
func (o Operator) Symbol() string {
	if o.valid() {
		return operatorSymbols[o]
	}
	return ""
}

// Prefix returns the filter key prefix for the operator. Eq has none.
func (o Operator) Prefix() string {
	for _, p := range prefixes {
		if p.op == o {
			return p.prefix
		}
	}
	return ""
}

// IsList reports whether the operator takes a list of values.
func (o Operator) IsList() bool {
	return o == In || o == NotIn
}

// IsPattern reports whether the operator renders a LIKE pattern.
func (o Operator) IsPattern() bool {
	return o == Like || o == LikePrefix || o == LikeSuffix
}

// Pattern wraps a value with the wildcards of a LIKE operator.
func (o Operator) Pattern(value string) string {
	switch o {
	case Like:
		return "%" + value + "%"
	case LikePrefix:
		return value + "%"
	case LikeSuffix:
		return "%" + value
	default:
		return value
	}
}

func (o Operator) valid() bool {
	return o >= 0 && int(o) < len(operatorNames)
}

// Key builds the filter key addressing column with the given operator.
//
//	filter.Key(filter.LikeSuffix, "province") // "_llike_province"
func Key(op Operator, column string) string {
	return op.Prefix() + column
}

// ParseKey splits a filter key into its operator and column.
func ParseKey(key string) (Operator, string, error) {
	op, column := Eq, key
	for _, p := range prefixes {
		if strings.HasPrefix(key, p.prefix) {
			op, column = p.op, key[len(p.prefix):]
			break
		}
	}
	if column == "" {
		return op, "", &Error{Key: key, Reason: "no column after operator prefix"}
	}
	return op, column, nil
}
