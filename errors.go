package fluentdao

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/biyonik/go-fluent-dao/filter"
	"github.com/biyonik/go-fluent-dao/internal/validation"
	"github.com/biyonik/go-fluent-dao/schema"
)

// Sentinel errors for go-fluent-dao.
// These errors can be checked using errors.Is().
var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("fluentdao: configuration error")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("fluentdao: validation error")

	// ErrExecution matches every *ExecutionError.
	ErrExecution = errors.New("fluentdao: execution error")

	// ErrUnboundTable is returned when a Session call names no table and none is bound.
	ErrUnboundTable = errors.New("fluentdao: no table bound")

	// ErrMissingPrimaryKey is returned when an update or delete has no primary-key value.
	ErrMissingPrimaryKey = errors.New("fluentdao: primary key value is missing")

	// ErrNoColumns is returned when an insert/update has nothing to write.
	ErrNoColumns = errors.New("fluentdao: no columns to write")

	// ErrInvalidIdentifier is returned when a table or column name contains invalid characters.
	ErrInvalidIdentifier = errors.New("fluentdao: invalid SQL identifier")

	// ErrTxAlreadyClosed is returned when a finished transaction is used again.
	ErrTxAlreadyClosed = errors.New("fluentdao: transaction already closed")

	// ErrClosed is returned by an Accessor after Close.
	ErrClosed = errors.New("fluentdao: accessor closed")
)

// Re-exported so callers need a single import.
var (
	ErrSchema              = schema.ErrSchema
	ErrTableNotFound       = schema.ErrTableNotFound
	ErrColumnNotFound      = schema.ErrColumnNotFound
	ErrNoPrimaryKey        = schema.ErrNoPrimaryKey
	ErrCompositePrimaryKey = schema.ErrCompositePrimaryKey
	ErrInvalidFilter       = filter.ErrInvalidFilter
)

// SchemaError reports a missing table or column, an unusable primary key, or a
// failure while reading metadata.
type SchemaError = schema.SchemaError

// ConfigurationError reports a missing or malformed connection setting.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "fluentdao: configuration: " + e.Reason
	}
	return "fluentdao: configuration [" + e.Field + "]: " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ValidationError reports caller input that cannot become a statement: a bad
// filter, an unsafe identifier, a missing table name or primary-key value.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("fluentdao: validation")
	if e.Field != "" {
		b.WriteString(" [" + e.Field + "]")
	}
	switch {
	case e.Reason != "":
		b.WriteString(": " + e.Reason)
	case e.Err != nil:
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError, and
// errors.Is(err, ErrInvalidIdentifier) hold when an identifier check failed.
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	if target == ErrInvalidIdentifier {
		var ie *validation.IdentifierError
		return errors.As(e.Err, &ie)
	}
	return false
}

// ExecutionError wraps a driver failure together with the statement that caused it.
// Code carries the MySQL error number when the server reported one.
type ExecutionError struct {
	Op        string
	Statement string
	Args      []any
	Code      uint16
	Err       error
}

func (e *ExecutionError) Error() string {
	msg := "fluentdao: " + e.Op
	if e.Statement != "" {
		msg += " [" + e.Statement + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

// NewExecutionError creates a new ExecutionError with statement context.
func NewExecutionError(op, statement string, args []any, err error) *ExecutionError {
	e := &ExecutionError{Op: op, Statement: statement, Args: args, Err: err}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		e.Code = me.Number
	}
	return e
}

// WrapError prefixes err with the failed operation. A nil err stays nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("fluentdao: %s: %w", op, err)
}

// asValidation turns builder-level failures into ValidationErrors and lets
// schema errors through unchanged.
func asValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	var (
		se *schema.SchemaError
		ve *ValidationError
	)
	if errors.As(err, &se) || errors.As(err, &ve) {
		return err
	}
	return &ValidationError{Field: field, Err: err}
}
