package fluentdao

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/go-fluent-dao/internal/testutil"
	"github.com/biyonik/go-fluent-dao/schema"
)

var userColumns = []string{"id", "name", "email"}

func testCatalog() *schema.Catalog {
	return schema.NewCatalog("shop",
		schema.NewTableSchema("user", []schema.ColumnInfo{
			{Name: "id", SQLType: "int(11)", IsPrimaryKey: true, OrdinalPosition: 1},
			{Name: "name", SQLType: "varchar(64)", Nullable: true, OrdinalPosition: 2},
			{Name: "email", SQLType: "varchar(128)", OrdinalPosition: 3},
		}),
		schema.NewTableSchema("province", []schema.ColumnInfo{
			{Name: "id", SQLType: "int(11)", IsPrimaryKey: true, OrdinalPosition: 1},
			{Name: "province_id", SQLType: "char(6)", OrdinalPosition: 2},
			{Name: "province", SQLType: "varchar(32)", OrdinalPosition: 3},
		}),
		schema.NewTableSchema("audit_log", []schema.ColumnInfo{
			{Name: "at", SQLType: "datetime", OrdinalPosition: 1},
			{Name: "message", SQLType: "text", Nullable: true, OrdinalPosition: 2},
		}),
	)
}

func newTestAccessor(t *testing.T, opts ...Option) (*Accessor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	opts = append([]Option{WithDebug(true), WithLogger(NewSlogLogger(testutil.NewTestLogger(t)))}, opts...)
	acc, err := New(db, testCatalog(), opts...)
	require.NoError(t, err)
	return acc, mock
}

// databaseRecorder lets a RecordingLogger take part in database binding.
type databaseRecorder struct {
	*testutil.RecordingLogger
}

func (r databaseRecorder) WithDatabase(database string) Logger {
	r.Database = database
	return r
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows(userColumns)
}
