package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// parseAssignments turns key=value arguments into a mapping.
//
// Values are typed loosely: null becomes nil, integers become int64, and a
// value wrapped in single or double quotes is kept as the string inside them.
// Everything else stays a string, so "_in_id=1,2,3" reaches the filter
// compiler as a comma-joined list.
func parseAssignments(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		out[key] = parseValue(value)
	}
	return out, nil
}

func parseValue(s string) any {
	if len(s) >= 2 {
		if q := s[0]; (q == '\'' || q == '"') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	if strings.EqualFold(s, "null") {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}
