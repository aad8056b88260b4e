package schema

import "errors"

// Sentinel errors. Every *SchemaError matches ErrSchema; the specific cause is
// reachable through errors.Is as well.
var (
	ErrSchema              = errors.New("fluentdao: schema error")
	ErrTableNotFound       = errors.New("fluentdao: table not found")
	ErrColumnNotFound      = errors.New("fluentdao: column not found")
	ErrNoPrimaryKey        = errors.New("fluentdao: table has no primary key")
	ErrCompositePrimaryKey = errors.New("fluentdao: composite primary keys are not supported")
)

// SchemaError reports a missing table or column, an unusable primary key, or a
// failure while reading metadata.
type SchemaError struct {
	Table  string
	Column string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := "fluentdao: schema"
	if e.Table != "" {
		msg += " table '" + e.Table + "'"
	}
	if e.Column != "" {
		msg += " column '" + e.Column + "'"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSchema) hold for every SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
