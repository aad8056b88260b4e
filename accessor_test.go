package fluentdao

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/go-fluent-dao/dialect"
	"github.com/biyonik/go-fluent-dao/filter"
	"github.com/biyonik/go-fluent-dao/internal/testutil"
	"github.com/biyonik/go-fluent-dao/schema"
)

const selectUser = "SELECT `id`, `name`, `email` FROM `user` WHERE 1=1"

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(nil, testCatalog())
	assert.ErrorIs(t, err, ErrConfiguration)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	_, err = New(db, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAccessor_Bind(t *testing.T) {
	acc, _ := newTestAccessor(t)

	tbl, err := acc.Bind("user")
	require.NoError(t, err)
	assert.Equal(t, "user", tbl.Name())
	assert.Equal(t, userColumns, tbl.Columns())
	pk, err := tbl.PrimaryKey()
	require.NoError(t, err)
	assert.Equal(t, "id", pk)

	_, err = acc.Bind("")
	assert.ErrorIs(t, err, ErrUnboundTable)

	_, err = acc.Bind("order")
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Panics(t, func() { acc.MustBind("order") })

	require.NoError(t, acc.Close())
	require.NoError(t, acc.Close())
	_, err = acc.Bind("user")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTable_SelectOne(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("user")

	mock.ExpectQuery(selectUser + " AND `name` = 'Ada' LIMIT 0,1").
		WillReturnRows(userRows().AddRow(int64(1), []byte("Ada"), []byte("a@x")))

	row, err := tbl.SelectOne(context.Background(), filter.Filters{"name": "Ada"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, []any{int64(1), "Ada", "a@x"}, row.Values())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_SelectOneNoRow(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("user")

	mock.ExpectQuery(selectUser + " AND `id` = 9 LIMIT 0,1").WillReturnRows(userRows())

	row, err := tbl.SelectByPrimaryKey(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, row)
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = tbl.SelectByPrimaryKey(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMissingPrimaryKey)
}

func TestTable_SelectAll(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("user")
	f := filter.Filters{"_in_id": "1,2", "orderby": "id", "ordertype": "desc"}
	query := selectUser + " AND `id` IN (1,2) ORDER BY `id` DESC"

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(query).WillReturnRows(userRows().
			AddRow(int64(2), nil, "b@x").
			AddRow(int64(1), "a", "a@x"))
	}

	first, err := tbl.SelectAll(context.Background(), f)
	require.NoError(t, err)
	second, err := tbl.SelectAll(context.Background(), f)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	v, _ := first[0].Get("name")
	assert.Nil(t, v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_SelectAllEmpty(t *testing.T) {
	acc, mock := newTestAccessor(t)
	mock.ExpectQuery(selectUser).WillReturnRows(userRows())

	rows, err := acc.MustBind("user").SelectAll(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestTable_Count(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("user")

	mock.ExpectQuery("SELECT count(*) FROM `user` WHERE 1=1 AND `name` LIKE '%a%'").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(int64(4)))
	mock.ExpectQuery("SELECT count(*) FROM (SELECT 1 FROM `user` WHERE 1=1 GROUP BY `email`) AS `grouped`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow("2"))

	n, err := tbl.Count(context.Background(), filter.Filters{"_like_name": "a", "orderby": "id", "page": filter.NewPage(2, 5)})
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	groups, err := tbl.Count(context.Background(), filter.Filters{"groupby": "email"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, groups)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_SelectPageClamps(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("user")

	mock.ExpectQuery("SELECT count(*) FROM `user` WHERE 1=1").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(int64(3)))
	mock.ExpectQuery(selectUser + " LIMIT 2,2").
		WillReturnRows(userRows().AddRow(int64(3), "c", "c@x"))

	res, err := tbl.SelectPage(context.Background(), filter.NewPage(5, 2), filter.Filters{"page": filter.NewPage(1, 50)})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page.Number)
	assert.Equal(t, 2, res.Page.TotalPages)
	assert.EqualValues(t, 3, res.Page.TotalCount)
	assert.Len(t, res.Rows, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_SelectPageProvince(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("province")

	mock.ExpectQuery("SELECT count(*) FROM `province` WHERE 1=1 AND `province` LIKE '%省'").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(int64(40)))
	mock.ExpectQuery("SELECT `id`, `province_id`, `province` FROM `province` WHERE 1=1 AND `province` LIKE '%省' ORDER BY `province_id` DESC LIMIT 0,20").
		WillReturnRows(sqlmock.NewRows([]string{"id", "province_id", "province"}).AddRow(int64(1), "650000", "新疆省"))

	res, err := tbl.SelectPage(context.Background(), filter.NewPage(1, 20), filter.Filters{
		"_llike_province": "省",
		"orderby":         "province_id",
		"ordertype":       "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page.TotalPages)
	require.Len(t, res.Rows, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_Save(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("user")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `user` (`id`, `name`, `email`) VALUES (NULL, 'Ada', 'a@x')").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	n, err := tbl.Save(context.Background(), Record{"name": "Ada", "email": "a@x"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_SaveThenSelectByPrimaryKey(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("user")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `user` (`id`, `name`, `email`) VALUES (10, 'Ada', 'a@x')").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(selectUser + " AND `id` = 10 LIMIT 0,1").
		WillReturnRows(userRows().AddRow(int64(10), "Ada", "a@x"))

	ctx := context.Background()
	_, err := tbl.Save(ctx, Record{"id": 10, "name": "Ada", "email": "a@x"})
	require.NoError(t, err)

	row, err := tbl.SelectByPrimaryKey(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, Record{"id": int64(10), "name": "Ada", "email": "a@x"}, row.Record())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_UpdateFailureRollsBack(t *testing.T) {
	rec := &testutil.RecordingLogger{}
	acc, mock := newTestAccessor(t, WithDebug(false), WithLogger(rec))
	tbl := acc.MustBind("user")

	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x' for key 'email'"}
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `user` SET `email`='a@x' WHERE `id`='2'").WillReturnError(dup)
	mock.ExpectRollback()

	_, err := tbl.UpdateSelective(context.Background(), Record{"id": 2, "name": nil, "email": "a@x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecution)

	var ee *ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, uint16(1062), ee.Code)
	assert.Equal(t, "UPDATE `user` SET `email`='a@x' WHERE `id`='2'", ee.Statement)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, rec.Entries, 1)
	assert.Error(t, rec.Entries[0].Err)
}

func TestTable_UpdateFailureKeepsCauseWhenRollbackFails(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("user")

	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x' for key 'email'"}
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `user` SET `email`='a@x' WHERE `id`='2'").WillReturnError(dup)
	mock.ExpectRollback().WillReturnError(errors.New("connection lost"))

	_, err := tbl.UpdateSelective(context.Background(), Record{"id": 2, "email": "a@x"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	var ee *ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "exec", ee.Op)
	assert.Equal(t, uint16(1062), ee.Code)

	var myErr *mysql.MySQLError
	require.True(t, errors.As(err, &myErr))
	assert.Equal(t, uint16(1062), myErr.Number)
	assert.Contains(t, err.Error(), "Duplicate entry")
	assert.Contains(t, err.Error(), "connection lost")
}

func TestTable_LogsCarryDatabase(t *testing.T) {
	rec := databaseRecorder{&testutil.RecordingLogger{}}
	acc, mock := newTestAccessor(t, WithLogger(rec))
	mock.ExpectQuery(selectUser).WillReturnRows(userRows())

	_, err := acc.MustBind("user").SelectAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rec.Entries, 1)
	assert.Equal(t, "shop", rec.Entries[0].Database)
	assert.Equal(t, selectUser, rec.Entries[0].Query)
}

func TestSlogLogger_WithDatabase(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	bound := l.WithDatabase("shop")
	bound.Log("SELECT 1", nil, time.Millisecond, nil)
	l.Log("SELECT 2", nil, 0, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"database":"shop"`)
	assert.Contains(t, lines[0], `"sql":"SELECT 1"`)
	assert.NotContains(t, lines[1], "database")
}

func TestTable_DebugLogging(t *testing.T) {
	rec := &testutil.RecordingLogger{}
	acc, mock := newTestAccessor(t, WithDebug(false), WithLogger(rec))
	mock.ExpectQuery(selectUser).WillReturnRows(userRows())

	_, err := acc.MustBind("user").SelectAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rec.Entries)

	debug := &testutil.RecordingLogger{}
	acc, mock = newTestAccessor(t, WithLogger(debug))
	mock.ExpectQuery(selectUser).WillReturnRows(userRows())

	_, err = acc.MustBind("user").SelectAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, debug.Entries, 1)
	assert.Equal(t, selectUser, debug.Entries[0].Query)
	assert.NoError(t, debug.Entries[0].Err)
}

func TestTable_Remove(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("user")

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM `user` WHERE `id`=5").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	n, err := tbl.Remove(context.Background(), Record{"id": 5, "name": "x"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = tbl.RemoveByPrimaryKey(context.Background(), 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = tbl.Remove(context.Background(), Record{"name": "x"})
	assert.ErrorIs(t, err, ErrMissingPrimaryKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_Update(t *testing.T) {
	acc, mock := newTestAccessor(t)
	tbl := acc.MustBind("user")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `user` SET `name`=NULL WHERE `id`='2'").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := tbl.Update(context.Background(), Record{"id": 2, "name": nil})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_BoundMode(t *testing.T) {
	acc, mock := newTestAccessor(t, WithRenderMode(dialect.Bound))
	tbl := acc.MustBind("user")

	mock.ExpectQuery(selectUser+" AND `id` > ? AND `email` = ? LIMIT 0,1").
		WithArgs(3, "a@x").
		WillReturnRows(userRows().AddRow(int64(4), "d", "a@x"))

	row, err := tbl.SelectOne(context.Background(), filter.Filters{"email": "a@x", "_gt_id": 3})
	require.NoError(t, err)
	require.NotNil(t, row)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_QueryError(t *testing.T) {
	acc, mock := newTestAccessor(t)
	mock.ExpectQuery(selectUser).WillReturnError(errors.New("connection reset"))

	_, err := acc.MustBind("user").SelectAll(context.Background(), nil)
	assert.ErrorIs(t, err, ErrExecution)
}

type staticStore struct {
	snap   *schema.Snapshot
	getErr error
}

func (s *staticStore) Get(context.Context, string) (*schema.Snapshot, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.snap == nil {
		return nil, schema.ErrSnapshotMiss
	}
	return s.snap, nil
}

func (s *staticStore) Put(_ context.Context, snap *schema.Snapshot) error {
	s.snap = snap
	return nil
}

func TestReflect_FromStore(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	store := &staticStore{snap: testCatalog().Snapshot(true)}
	acc, err := Reflect(context.Background(), db, "shop", nil, WithSnapshotStore(store))
	require.NoError(t, err)
	assert.Equal(t, []string{"audit_log", "province", "user"}, acc.Catalog().Tables())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReflect_StoreFailureIsLogged(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_KEY, COLUMN_COMMENT, ORDINAL_POSITION "+
		"FROM information_schema.`COLUMNS` WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION").
		WithArgs("shop", "user").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_KEY", "COLUMN_COMMENT", "ORDINAL_POSITION"}).
			AddRow("id", "int(11)", "NO", "PRI", "", 1).
			AddRow("name", "varchar(64)", "YES", "", "", 2))

	rec := &testutil.RecordingLogger{}
	store := &staticStore{getErr: errors.New("redis down")}
	acc, err := Reflect(context.Background(), db, "shop", []string{"user"}, WithSnapshotStore(store), WithLogger(rec))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{"user"}, acc.Catalog().Tables())
	require.Len(t, rec.Entries, 1)
	assert.Equal(t, "catalog snapshot get", rec.Entries[0].Query)
	assert.NotNil(t, store.snap)
}

func TestReflect_LogsCatalogLoad(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	store := &staticStore{snap: testCatalog().Snapshot(true)}
	rec := databaseRecorder{&testutil.RecordingLogger{}}
	_, err = Reflect(context.Background(), db, "shop", nil, WithSnapshotStore(store), WithLogger(rec), WithDebug(true))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, rec.Entries, 1)
	assert.Equal(t, "catalog load: 3 tables", rec.Entries[0].Query)
	assert.Equal(t, "shop", rec.Entries[0].Database)
	assert.NoError(t, rec.Entries[0].Err)
}

func TestReflect_UnknownTable(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_KEY, COLUMN_COMMENT, ORDINAL_POSITION "+
		"FROM information_schema.`COLUMNS` WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION").
		WithArgs("shop", "ghost").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_KEY", "COLUMN_COMMENT", "ORDINAL_POSITION"}))

	_, err = Reflect(context.Background(), db, "shop", []string{"ghost"})
	assert.ErrorIs(t, err, ErrSchema)
	assert.ErrorIs(t, err, ErrTableNotFound)
}
