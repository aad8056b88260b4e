package filter

import "errors"

// ErrInvalidFilter is matched by every error the compiler returns.
var ErrInvalidFilter = errors.New("fluentdao: invalid filter")

// Error describes a filter entry that could not be compiled.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "fluentdao: invalid filter: " + e.Reason
	}
	return "fluentdao: invalid filter '" + e.Key + "': " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidFilter) hold.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidFilter
}
